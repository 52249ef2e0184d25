package store

import "github.com/alfagnish/exchange-api/internal/models"

// Set groups the independent store of each resource type. It is created
// once by the process entry point and handed to the HTTP layer and the seed
// loader.
type Set struct {
	Persons      *Store[models.Person]
	Addresses    *Store[models.Address]
	Conversions  *Store[models.Conversion]
	Destinations *Store[models.Destination]
}

// NewSet returns a Set of empty stores.
func NewSet() *Set {
	return &Set{
		Persons:      New[models.Person]("persons"),
		Addresses:    New[models.Address]("addresses"),
		Conversions:  New[models.Conversion]("conversions"),
		Destinations: New[models.Destination]("destinations"),
	}
}
