package config

// Config holds bookshelf configuration.
// Stored at: ~/.growth-bookshelf/config.yaml
type Config struct {
	CORSOrigin  string         `mapstructure:"cors_origin" yaml:"cors_origin"`
	Catalog     CatalogCfg     `mapstructure:"catalog" yaml:"catalog"`
	GoogleBooks GoogleBooksCfg `mapstructure:"google_books" yaml:"google_books"`
	Shelf       ShelfCfg       `mapstructure:"shelf" yaml:"shelf"`
	Neo4j       Neo4jCfg       `mapstructure:"neo4j" yaml:"neo4j"`
	SQLite      SQLiteCfg      `mapstructure:"sqlite" yaml:"sqlite"`
}

// CatalogCfg configures the NDL OpenSearch upstream.
type CatalogCfg struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// GoogleBooksCfg configures the Google Books cover fallback.
type GoogleBooksCfg struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
}

// ShelfCfg configures the physical shelf dimensions.
type ShelfCfg struct {
	BooksPerShelf int `mapstructure:"books_per_shelf" yaml:"books_per_shelf"`
	TotalShelves  int `mapstructure:"total_shelves" yaml:"total_shelves"`
}

// Neo4jCfg configures the graph database connection and the optionally
// managed container.
type Neo4jCfg struct {
	URI             string       `mapstructure:"uri" yaml:"uri"`
	Username        string       `mapstructure:"username" yaml:"username"`
	Password        string       `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR} syntax
	ManageContainer bool         `mapstructure:"manage_container" yaml:"manage_container"`
	Container       ContainerCfg `mapstructure:"container" yaml:"container"`
}

// ContainerCfg holds Neo4j container settings used when
// manage_container is enabled.
type ContainerCfg struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Image    string `mapstructure:"image" yaml:"image"`
	BoltPort string `mapstructure:"bolt_port" yaml:"bolt_port"`
	HTTPPort string `mapstructure:"http_port" yaml:"http_port"`
}

// SQLiteCfg configures the local SQLite database. An empty path selects
// ~/.growth-bookshelf/bookshelf.db.
type SQLiteCfg struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CORSOrigin: "http://localhost:3000",
		Catalog: CatalogCfg{
			Endpoint: "https://ndlsearch.ndl.go.jp/api/opensearch",
		},
		GoogleBooks: GoogleBooksCfg{
			APIKey: "${GOOGLE_BOOKS_API_KEY}",
		},
		Shelf: ShelfCfg{
			BooksPerShelf: 5,
			TotalShelves:  3,
		},
		Neo4j: Neo4jCfg{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "${NEO4J_PASSWORD}",
			Container: ContainerCfg{
				Name:     "bookshelf-neo4j",
				Image:    "neo4j:5",
				BoltPort: "7687",
				HTTPPort: "7474",
			},
		},
		SQLite: SQLiteCfg{},
	}
}

// GoogleAPIKey returns the Google Books key with ${ENV_VAR} references
// resolved.
func (c *Config) GoogleAPIKey() string {
	return ResolveEnvVars(c.GoogleBooks.APIKey)
}

// Neo4jPassword returns the Neo4j password with ${ENV_VAR} references
// resolved.
func (c *Config) Neo4jPassword() string {
	return ResolveEnvVars(c.Neo4j.Password)
}
