package persona

import "github.com/sundew-sh/sundew/pkg/models"

// EndpointDef describes one REST operation a persona pack exposes, prior to
// having the company's endpoint prefix applied.
type EndpointDef struct {
	Path    string
	Method  string
	Summary string
}

// packEndpoints lists the REST surface each industry exposes. Ported from
// the reference deployment's per-industry endpoint table.
var packEndpoints = map[models.Industry][]EndpointDef{
	models.IndustryFintech: {
		{"/transactions", "GET", "List transactions"},
		{"/transactions/{id}", "GET", "Get transaction by ID"},
		{"/accounts", "GET", "List accounts"},
		{"/accounts/{id}", "GET", "Get account details"},
		{"/accounts/{id}/balance", "GET", "Get account balance"},
		{"/transfers", "POST", "Create a transfer"},
		{"/customers/{id}", "GET", "Get customer profile"},
		{"/config", "GET", "Get service configuration"},
	},
	models.IndustrySaaS: {
		{"/users", "GET", "List users"},
		{"/users/{id}", "GET", "Get user by ID"},
		{"/workspaces", "GET", "List workspaces"},
		{"/workspaces/{id}", "GET", "Get workspace details"},
		{"/api-keys", "GET", "List API keys"},
		{"/api-keys", "POST", "Create API key"},
		{"/logs", "GET", "Fetch application logs"},
		{"/deployments", "POST", "Trigger deployment"},
	},
	models.IndustryHealthcare: {
		{"/patients", "GET", "List patients"},
		{"/patients/{id}", "GET", "Get patient record"},
		{"/prescriptions", "GET", "List prescriptions"},
		{"/prescriptions/{id}", "GET", "Get prescription"},
		{"/audit-log", "GET", "View audit trail"},
		{"/reports", "POST", "Generate report"},
		{"/providers", "GET", "List providers"},
		{"/appointments", "GET", "List appointments"},
	},
	models.IndustryEcommerce: {
		{"/products", "GET", "List products"},
		{"/products/{id}", "GET", "Get product details"},
		{"/orders", "GET", "List orders"},
		{"/orders/{id}", "GET", "Get order details"},
		{"/cart", "GET", "Get current cart"},
		{"/cart/items", "POST", "Add item to cart"},
		{"/inventory/{sku}", "GET", "Check inventory"},
		{"/refunds", "POST", "Process refund"},
	},
	models.IndustryDevtools: {
		{"/repositories", "GET", "List repositories"},
		{"/repositories/{id}", "GET", "Get repository"},
		{"/builds", "GET", "List builds"},
		{"/builds/{id}", "GET", "Get build status"},
		{"/secrets", "GET", "List secrets"},
		{"/secrets/{key}", "GET", "Get secret value"},
		{"/deployments", "POST", "Trigger deployment"},
		{"/pipelines", "GET", "List pipelines"},
	},
	models.IndustryLogistics: {
		{"/shipments", "GET", "List shipments"},
		{"/shipments/{id}", "GET", "Get shipment details"},
		{"/shipments", "POST", "Create shipment"},
		{"/tracking/{number}", "GET", "Track shipment"},
		{"/warehouses", "GET", "List warehouses"},
		{"/warehouses/{id}/inventory", "GET", "Warehouse inventory"},
		{"/routes/optimize", "POST", "Optimize route"},
		{"/carriers", "GET", "List carriers"},
	},
}

// Endpoints returns the REST operations a given industry's pack exposes,
// falling back to the SaaS pack for an unrecognized industry.
func Endpoints(industry models.Industry) []EndpointDef {
	if eps, ok := packEndpoints[industry]; ok {
		return eps
	}
	return packEndpoints[models.IndustrySaaS]
}

// listResponseBody holds the {{variable}}-templated collection response body
// per industry, ported from the reference deployment's literal fixtures.
var listResponseBody = map[models.Industry]map[string]any{
	models.IndustryFintech: {
		"data": []any{
			map[string]any{"id": "txn_{{canary_1}}", "amount": 2847.50, "currency": "USD", "status": "completed", "created_at": "{{timestamp}}"},
			map[string]any{"id": "txn_{{canary_2}}", "amount": 149.99, "currency": "USD", "status": "pending", "created_at": "{{timestamp}}"},
		},
	},
	models.IndustrySaaS: {
		"data": []any{
			map[string]any{"id": "usr_{{canary_1}}", "email": "admin@{{company_domain}}", "role": "admin", "status": "active"},
			map[string]any{"id": "usr_{{canary_2}}", "email": "dev@{{company_domain}}", "role": "member", "status": "active"},
		},
	},
	models.IndustryHealthcare: {
		"data": []any{
			map[string]any{"id": "pat_{{canary_1}}", "name": "Riley Thompson", "mrn": "MRN-{{canary_2}}", "status": "active"},
			map[string]any{"id": "pat_{{short_id}}", "name": "Morgan Lee", "mrn": "MRN-{{canary_1}}", "status": "active"},
		},
	},
	models.IndustryEcommerce: {
		"data": []any{
			map[string]any{"id": "prod_{{canary_1}}", "name": "Wireless Headphones", "price": 199.99, "in_stock": true, "sku": "SKU-{{canary_2}}"},
			map[string]any{"id": "prod_{{short_id}}", "name": "USB-C Hub", "price": 49.99, "in_stock": true, "sku": "SKU-{{canary_1}}"},
		},
	},
	models.IndustryDevtools: {
		"data": []any{
			map[string]any{"id": "repo_{{canary_1}}", "name": "api-gateway", "language": "TypeScript", "visibility": "private"},
			map[string]any{"id": "repo_{{canary_2}}", "name": "ml-pipeline", "language": "Python", "visibility": "private"},
		},
	},
	models.IndustryLogistics: {
		"data": []any{
			map[string]any{"id": "shp_{{canary_1}}", "tracking": "TRK-{{canary_2}}", "status": "in_transit", "carrier": "FedEx"},
			map[string]any{"id": "shp_{{short_id}}", "tracking": "TRK-{{canary_1}}", "status": "delivered", "carrier": "UPS"},
		},
	},
}

// detailResponseBody holds the {{variable}}-templated single-item response
// body per industry.
var detailResponseBody = map[models.Industry]map[string]any{
	models.IndustryFintech: {
		"id": "txn_{{canary_1}}", "amount": 2847.50, "currency": "USD", "status": "completed",
		"merchant": "CloudServices Inc.", "reference": "REF-{{canary_2}}", "created_at": "{{timestamp}}",
		"metadata": map[string]any{"source": "api", "ip": "10.0.1.{{octet}}"},
	},
	models.IndustrySaaS: {
		"id": "usr_{{canary_1}}", "email": "admin@{{company_domain}}", "name": "Alex Chen",
		"role": "admin", "status": "active", "last_login": "{{timestamp}}", "workspace_id": "ws_{{canary_2}}",
	},
	models.IndustryHealthcare: {
		"id": "pat_{{canary_1}}", "name": "Riley Thompson", "date_of_birth": "1985-07-22",
		"mrn": "MRN-{{canary_2}}", "insurance_id": "INS-{{short_id}}", "provider": "Dr. Sarah Kim",
		"last_visit": "{{timestamp}}",
	},
	models.IndustryEcommerce: {
		"id": "prod_{{canary_1}}", "name": "Wireless Noise-Canceling Headphones", "price": 199.99,
		"currency": "USD", "sku": "SKU-{{canary_2}}", "in_stock": true, "rating": 4.7, "reviews_count": 342,
	},
	models.IndustryDevtools: {
		"id": "repo_{{canary_1}}", "name": "api-gateway", "language": "TypeScript", "visibility": "private",
		"default_branch": "main", "last_push": "{{timestamp}}", "clone_url": "git@git.{{company_domain}}:org/api-gateway.git",
	},
	models.IndustryLogistics: {
		"id": "shp_{{canary_1}}", "tracking_number": "TRK-{{canary_2}}", "status": "in_transit", "carrier": "FedEx",
		"origin": "Memphis, TN", "destination": "San Francisco, CA", "estimated_delivery": "{{timestamp}}",
	},
}

// ListResponseBody returns the collection response fixture for an industry,
// falling back to SaaS. The returned map is shared package state; pass it
// through interpolate.Value rather than mutating it directly.
func ListResponseBody(industry models.Industry) map[string]any {
	if body, ok := listResponseBody[industry]; ok {
		return body
	}
	return listResponseBody[models.IndustrySaaS]
}

// DetailResponseBody returns the single-item response fixture for an
// industry, falling back to SaaS.
func DetailResponseBody(industry models.Industry) map[string]any {
	if body, ok := detailResponseBody[industry]; ok {
		return body
	}
	return detailResponseBody[models.IndustrySaaS]
}
