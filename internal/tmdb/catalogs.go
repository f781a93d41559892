package tmdb

// KnownFranchises maps franchise names to TMDB collection IDs.
var KnownFranchises = map[string]int64{
	"Alien":                  8091,
	"Back to the Future":     264,
	"Despicable Me":          86066,
	"Evil Dead":              1960,
	"Fast & Furious":         9485,
	"Harry Potter":           1241,
	"The Hunger Games":       131635,
	"Indiana Jones":          84,
	"James Bond":             645,
	"John Wick":              404609,
	"Jurassic Park":          328,
	"The Lord of the Rings":  119,
	"The Matrix":             2344,
	"Mission: Impossible":    87359,
	"Ocean's":                304,
	"Pirates of the Caribbean": 295,
	"Planet of the Apes":     173710,
	"Scream":                 2602,
	"Shrek":                  2150,
	"Sonic the Hedgehog":     720879,
	"Star Trek":              115575,
	"Star Wars":              10,
	"The Dark Knight":        263,
	"The Twilight Saga":      33514,
}

// Studio identifies a studio either by production company or by keyword.
// MCU-style "studios" are keywords on TMDB, not companies.
type Studio struct {
	Company int64
	Keyword int64
}

// KnownStudios maps lowercase studio aliases to TMDB identifiers.
var KnownStudios = map[string]Studio{
	"a24":                      {Company: 41077},
	"pixar":                    {Company: 3},
	"studio ghibli":            {Company: 10342},
	"mcu":                      {Keyword: 180547},
	"dceu":                     {Keyword: 229266},
	"neon":                     {Company: 93920},
	"dreamworks animation":     {Company: 521},
	"searchlight pictures":     {Company: 43},
	"disney animation":         {Company: 2},
	"the criterion collection": {Company: 10994},
	"netflix":                  {Company: 20580},
	"hbo":                      {Company: 3268},
}
