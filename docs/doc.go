// Package docs provides generated OpenAPI documentation.
//
// Growth Bookshelf API
//
//	@title			Growth Bookshelf API
//	@version		1.0
//	@description	Personal bookshelf API for searching Japan's NDL catalog and shelving books by NDC classification.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/ImoImoImokenpi/Growth-bookshelf
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/bookshelf/serve.go -o ./swagger --parseDependency --parseInternal
