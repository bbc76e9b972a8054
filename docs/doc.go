// Package docs provides generated OpenAPI documentation.
//
// Factify API
//
//	@title			Factify API
//	@version		1.0
//	@description	Document classification and metadata extraction API.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/factify-ai/factify
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/factify/serve.go -o ./swagger --parseDependency --parseInternal
