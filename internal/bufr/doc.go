// Package bufr models decoded WMO BUFR descriptor streams.
//
// # Data Source
//
// BUFR (Binary Universal Form for the Representation of meteorological data)
// is the WMO table-driven binary format used to exchange observations on the
// Global Telecommunication System. This package does not decode the binary
// bit-stream itself; an external decoder (see the ecdump adapter) produces the
// flat, ordered element streams modelled here, one per message subset.
//
// # Descriptor Conventions
//
// Every element carries a six-digit FXXYYY descriptor:
//
//	F (1 digit):  0 = element, 1 = replication, 2 = operator, 3 = sequence
//	XX (2 digits): element class
//	YYY (3 digits): entry within the class
//
// Replication descriptors (F=1) repeat the XX following descriptors YYY
// times. YYY=0 marks delayed replication: the repetition count is carried by
// a class 31 element immediately after the marker.
//
// Element classes 01-09 are coordinate classes ("qualifiers"): station
// identification (01), instrumentation (02, 03), time (04), horizontal
// location (05, 06), vertical location (07), and significance (08). A
// qualifier stays in force for subsequent data until redefined. Classes 10
// and above carry the observed parameters themselves. Descriptor 022067
// (instrument type for water temperature measurement) is a conventional
// exception: it sits in a data class but behaves as a qualifier.
//
// # Key Normalization
//
// Decoders emit camelCase element names, optionally prefixed with a
// replication rank ("#2#airTemperature"). Keys are normalized to snake_case
// with the rank stripped, e.g. "heightOfStationGroundAboveMeanSeaLevel"
// becomes "height_of_station_ground_above_mean_sea_level". All downstream
// matching (coordinate sets, metadata names, output properties) uses the
// normalized form. See [NormalizeKey].
//
// # Missing Values
//
// BUFR encodes missing values as all-ones bit patterns; decoders surface them
// as null. An element with neither a numeric value nor character data is
// "missing" and never produces an observation. Character data (units "CCITT
// IA5") populates Text; coded values (units "CODE TABLE") resolve to a
// human-readable description via the embedded code/flag tables.
package bufr
