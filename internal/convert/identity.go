package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// WIGOSIdentifier resolves the station identity qualifiers in force to a
// WIGOS station identifier. Stations reporting the four explicit WIGOS
// elements use them directly; traditional identifier schemes map onto the
// WMO-allocated issuer ranges:
//
//	block/station number    0-20000-0-BBSSS
//	ship call sign          0-20004-0-CALLSIGN
//	WMO buoy number         0-20002-0-RSNNNNN
//	C-MAN and platform ids  0-20002-0-ID
func (c Context) WIGOSIdentifier() (string, bool) {
	series, okSeries := c.value("wigos_identifier_series")
	issuer, okIssuer := c.value("wigos_issuer_of_identifier")
	number, okNumber := c.value("wigos_issue_number")
	local, okLocal := c.textValue("wigos_local_identifier_character")
	if okSeries && okIssuer && okNumber && okLocal {
		return fmt.Sprintf("%d-%d-%d-%s",
			int(series), int(issuer), int(number), strings.TrimSpace(local)), true
	}

	if block, ok := c.value("block_number"); ok {
		if station, ok := c.value("station_number"); ok {
			return fmt.Sprintf("0-20000-0-%02d%03d", int(block), int(station)), true
		}
	}

	if callsign, ok := c.textValue("ship_or_mobile_land_station_identifier"); ok {
		return "0-20004-0-" + strings.TrimSpace(callsign), true
	}

	if region, ok := c.value("region_number"); ok {
		if subArea, ok := c.value("wmo_region_sub_area"); ok {
			if buoy, ok := c.value("buoy_or_platform_identifier"); ok {
				return fmt.Sprintf("0-20002-0-%01d%01d%05d",
					int(region), int(subArea), int(buoy)), true
			}
		}
	}

	if id, ok := c.textValue("stationary_buoy_platform_identifier_e_g_c_man_buoys"); ok {
		return "0-20002-0-" + strings.TrimSpace(id), true
	}

	if id, ok := c.value("marine_observing_platform_identifier"); ok {
		return fmt.Sprintf("0-20002-0-%d", int(id)), true
	}

	return "", false
}

// ValidWSI reports whether s is a well formed WIGOS station identifier:
// series 0, issuer and issue number within 0..65534, and a local identifier
// of 1 to 16 alphanumeric characters.
func ValidWSI(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return false
	}
	if parts[0] != "0" {
		return false
	}
	for _, p := range parts[1:3] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 65534 {
			return false
		}
	}
	local := parts[3]
	if len(local) < 1 || len(local) > 16 {
		return false
	}
	for _, r := range local {
		isDigit := r >= '0' && r <= '9'
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isDigit && !isAlpha {
			return false
		}
	}
	return true
}
