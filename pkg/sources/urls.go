package sources

const (
	// WorldGeoJSONURL is a public-domain country outline collection used for
	// the land placeholder when no background image is available.
	WorldGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
)
