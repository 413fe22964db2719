// Package api provides the tenant and subscription lifecycle REST API:
// tenant onboarding and approval, plan purchases with payment-proof
// validation, accounting document storage under per-tenant quota, and the
// audit and API key management endpoints. All routes live under /api/v1 and
// authenticate with the X-API-Key header.
package api
