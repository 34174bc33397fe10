package geo

import (
	"context"
	"math"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two points in
// kilometers, rounded to 0.1 km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKm*c*10) / 10
}

// DistanceService resolves ZIP codes to coordinates and measures the
// distance between them.
type DistanceService struct {
	zipRepo repository.ZipCodeRepository
}

func NewDistanceService(zipRepo repository.ZipCodeRepository) *DistanceService {
	return &DistanceService{zipRepo: zipRepo}
}

// DistanceBetweenZips returns the distance in km between two ZIP codes, or
// domain.ErrNotFound when either ZIP is unknown.
func (s *DistanceService) DistanceBetweenZips(ctx context.Context, zip1, zip2 string) (float64, error) {
	if zip1 == zip2 {
		return 0, nil
	}
	z1, err := s.zipRepo.GetByZip(ctx, zip1)
	if err != nil {
		return 0, err
	}
	z2, err := s.zipRepo.GetByZip(ctx, zip2)
	if err != nil {
		return 0, err
	}
	return Haversine(z1.Latitude, z1.Longitude, z2.Latitude, z2.Longitude), nil
}

// Locate returns the centroid for a ZIP code.
func (s *DistanceService) Locate(ctx context.Context, zip string) (*domain.ZipCode, error) {
	return s.zipRepo.GetByZip(ctx, zip)
}
