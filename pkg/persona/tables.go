package persona

import "github.com/sundew-sh/sundew/pkg/models"

// All data tables below are ported verbatim from the reference persona
// generator so that deployments keep the same flavor of synthetic
// identity: company names, frameworks, error styles, and so on.

var companyPrefixes = []string{
	"Nova", "Apex", "Cirrus", "Vortex", "Helix", "Prism", "Nexus", "Vertex",
	"Stratos", "Cipher", "Pulse", "Quantum", "Atlas", "Zenith", "Flux",
	"Ember", "Cobalt", "Nimbus", "Drift", "Forge", "Lumen", "Crest",
}

var companySuffixes = []string{
	"Systems", "Labs", "AI", "Cloud", "Data", "Tech", "Platform", "IO",
	"Solutions", "Analytics", "Works", "Logic", "Base", "Hub", "Core",
	"Stack", "Flow", "Net", "API", "Ops",
}

var apiStyles = []string{"rest", "graphql", "jsonrpc"}

var frameworks = []string{
	"express/4.18.2", "django/4.2", "rails/7.1", "spring-boot/3.2.0",
	"fastapi/0.109.0", "flask/3.0.0", "nestjs/10.3.0", "gin/1.9.1",
	"laravel/10.40", "actix-web/4.4",
}

var errorStyles = []models.ErrorStyle{
	models.ErrorStyleRFC7807, models.ErrorStyleJSON, models.ErrorStyleHTML, models.ErrorStyleXML,
}

var authSchemes = []models.AuthScheme{
	models.AuthSchemeBearer, models.AuthSchemeAPIKeyHeader, models.AuthSchemeAPIKeyQuery,
	models.AuthSchemeBasic, models.AuthSchemeOAuth2,
}

var dataThemes = map[models.Industry][]string{
	models.IndustryFintech:    {"payments", "transactions", "accounts", "transfers", "invoices"},
	models.IndustrySaaS:       {"users", "workspaces", "subscriptions", "integrations", "webhooks"},
	models.IndustryHealthcare: {"patients", "appointments", "records", "prescriptions", "providers"},
	models.IndustryEcommerce:  {"products", "orders", "carts", "inventory", "reviews"},
	models.IndustryDevtools:   {"repositories", "builds", "deployments", "pipelines", "artifacts"},
	models.IndustryLogistics:  {"shipments", "warehouses", "routes", "tracking", "carriers"},
}

var serverHeaders = []string{
	"nginx/1.24.0", "nginx/1.25.3", "Apache/2.4.58", "cloudflare", "AmazonS3",
	"gws", "Microsoft-IIS/10.0", "openresty/1.25.3.1",
}

var endpointPrefixes = []string{
	"/api/v1", "/api/v2", "/api/v3", "/v1", "/v2", "/rest/v1", "/api", "/service/api",
}

var mcpServerNames = []string{
	"data-api", "platform-api", "core-service", "main-api", "backend",
	"service-hub", "api-gateway", "data-service",
}

var mcpToolPrefixes = map[models.Industry][]string{
	models.IndustryFintech:    {"payment_", "txn_", "account_", "finance_"},
	models.IndustrySaaS:       {"workspace_", "user_", "tenant_", "app_"},
	models.IndustryHealthcare: {"patient_", "clinical_", "health_", "medical_"},
	models.IndustryEcommerce:  {"product_", "order_", "catalog_", "shop_"},
	models.IndustryDevtools:   {"repo_", "build_", "deploy_", "pipeline_"},
	models.IndustryLogistics:  {"shipment_", "route_", "warehouse_", "tracking_"},
}

var rateLimitChoices = []int{100, 500, 1000, 5000}

var poweredByChoices = []string{"Express", "Django", "Rails", "Spring"}
