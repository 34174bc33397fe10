package domain

type ZipCode struct {
	Zip       string  `json:"zip"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
