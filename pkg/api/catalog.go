package api

// CatalogDocument is the wire shape served by a remote catalog endpoint.
// The whole document replaces the previous snapshot on every successful fetch.
type CatalogDocument struct {
	Providers []CatalogProvider `json:"providers"`
}

// CatalogProvider mirrors the descriptor fields a catalog source may publish.
type CatalogProvider struct {
	Name         string          `json:"name"`
	DisplayName  string          `json:"display_name"`
	Priority     int             `json:"priority"`
	Models       []string        `json:"models"`
	Capabilities map[string]bool `json:"capabilities"`
	Enabled      bool            `json:"enabled"`
}
