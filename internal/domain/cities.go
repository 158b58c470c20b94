package domain

// EthiopianCities backs the location picker in the user form; selecting a
// city fills the coordinates.
var EthiopianCities = map[string]Location{
	"Addis Ababa": {Name: "Addis Ababa", Lat: 9.005401, Lng: 38.741870},
	"Dire Dawa":   {Name: "Dire Dawa", Lat: 9.600874, Lng: 41.850143},
	"Mekelle":     {Name: "Mekelle", Lat: 13.496664, Lng: 39.469753},
	"Gondar":      {Name: "Gondar", Lat: 12.600000, Lng: 37.466667},
	"Bahir Dar":   {Name: "Bahir Dar", Lat: 11.593641, Lng: 37.390770},
	"Hawassa":     {Name: "Hawassa", Lat: 7.049936, Lng: 38.476318},
	"Jimma":       {Name: "Jimma", Lat: 7.667469, Lng: 36.835888},
	"Adama":       {Name: "Adama", Lat: 8.525048, Lng: 39.270180},
	"Jijiga":      {Name: "Jijiga", Lat: 9.351660, Lng: 42.796917},
	"Shashemene":  {Name: "Shashemene", Lat: 7.200927, Lng: 38.596073},
}
