package model

// Location is one entry in the city catalog: the display name of a city
// (accents and casing preserved) plus its code in the keyword provider's
// location taxonomy. The catalog is populated by the locations sync job and
// read-only on the search path.
type Location struct {
	Name         string `json:"name"`
	LocationCode int    `json:"location_code"`
}
