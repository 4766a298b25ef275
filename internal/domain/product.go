package domain

// Product represents one item in the remote catalog. The numeric ID is
// assigned by the catalog gateway on creation; a zero ID means the record has
// not been created remotely yet.
type Product struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       *int     `json:"stock,omitempty"`
	Category    string   `json:"category,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
	Rating      float64  `json:"rating,omitempty"`

	// Offline-sync metadata. Declared for a future offline extension and
	// carried through serialization untouched; no current logic reads them.
	LocalID   string `json:"__localId,omitempty"`
	Synced    *bool  `json:"__synced,omitempty"`
	PendingOp string `json:"__pendingOp,omitempty"`
}

// HasID reports whether the product carries a gateway-assigned identity.
func (p Product) HasID() bool {
	return p.ID != 0
}

// ProductPatch is a partial update for an existing product. Only set (non-nil)
// fields are serialized and applied by the gateway.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Price == nil &&
		p.Stock == nil &&
		p.Category == nil &&
		p.Thumbnail == nil &&
		p.Images == nil &&
		p.Rating == nil
}
