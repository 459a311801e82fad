package convert

// Location resolves the context's horizontal coordinates into a GeoJSON
// coordinate array, [longitude, latitude] plus station elevation when one is
// in force. Latitude and longitude displacements (mobile platforms, profile
// drift) are added to the base position and rounded back to the base
// element's precision.
func (c Context) Location() ([]float64, error) {
	var missing []string
	lat, latOK := c.value("latitude")
	if !latOK {
		missing = append(missing, "latitude")
	}
	lon, lonOK := c.value("longitude")
	if !lonOK {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return nil, &IncompleteContextError{Missing: missing}
	}

	if d, ok := c.value("latitude_displacement"); ok {
		latEntry, _ := c.lookup("latitude")
		lat = roundScale(lat+d, latEntry.scale)
	}
	if d, ok := c.value("longitude_displacement"); ok {
		lonEntry, _ := c.lookup("longitude")
		lon = roundScale(lon+d, lonEntry.scale)
	}

	coords := []float64{lon, lat}
	if z, ok := c.value("height_of_station_ground_above_mean_sea_level"); ok {
		coords = append(coords, z)
	}
	return coords, nil
}
