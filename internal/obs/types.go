package obs

// SearchHit is one raw result from the search_ahead endpoint.
type SearchHit struct {
	// ID is the product's entityId as a string.
	ID string
	// Name is the product's display name.
	Name string
}

// Product holds the raw attributes of one product as returned by the
// products endpoint. Fields the API omitted stay at their zero value;
// Rating and Price are left untyped because the API is not consistent
// about returning them as numbers or strings.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	Description string   `json:"description"`
	Rating      any      `json:"rating"`
	Price       any      `json:"price"`
	DateAvail   string   `json:"date_available"`
	ImagePath   string   `json:"image_path"`
}

// searchResponse mirrors the JSON:API-flavoured search_ahead envelope.
type searchResponse struct {
	Data []struct {
		Attributes struct {
			EntityID any    `json:"entityId"`
			Name     string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
}

// productResponse mirrors the products/{id} envelope. The publisher lives in
// the top-level "included" array, everything else under data.attributes.
type productResponse struct {
	Data struct {
		Attributes struct {
			Name        string `json:"name"`
			Description struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"description"`
			Authors       []string `json:"authors"`
			AverageRating any      `json:"averageRating"`
			Price         any      `json:"price"`
			DateAvailable string   `json:"dateAvailable"`
			Image         string   `json:"image"`
		} `json:"attributes"`
	} `json:"data"`
	Included []struct {
		Type       string `json:"type"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"included"`
}
