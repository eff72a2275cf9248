package model

// Recipe is the ingredient cost and price of one product size.
type Recipe struct {
	Product      string       `json:"product"`
	Size         string       `json:"size"`
	Requirements Requirements `json:"requirements"`
	Price        Cents        `json:"priceCents"`
}

// MenuEntry is a single line of the menu.
type MenuEntry struct {
	Product    string `json:"product"`
	Size       string `json:"size"`
	Price      string `json:"price"`
	PriceCents Cents  `json:"priceCents"`
}

// Availability reports whether a product size can be made right now.
type Availability struct {
	Product   string     `json:"product"`
	Size      string     `json:"size"`
	Available bool       `json:"available"`
	Shortages []Shortage `json:"shortages,omitempty"`
}

// MaintenanceStatus summarises the machine's stock health. Operational is
// true only when every catalog entry can be made; AnyAvailable is true when
// at least one can.
type MaintenanceStatus struct {
	Operational  bool           `json:"operational"`
	AnyAvailable bool           `json:"anyAvailable"`
	Shortages    []ResourceKind `json:"shortages"`
}
