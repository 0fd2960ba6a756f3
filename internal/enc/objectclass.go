package enc

import "fmt"

// objectClassNames maps S-57 OBJL codes to their mnemonic acronyms.
// Source: IHO S-57 Edition 3.1 Appendix A - Object Catalogue.
var objectClassNames = map[int]string{
	1: "ADMARE", 2: "AIRARE", 3: "ACHBRT", 4: "ACHARE", 5: "BCNCAR",
	6: "BCNISD", 7: "BCNLAT", 8: "BCNSAW", 9: "BCNSPP", 10: "BERTHS",
	11: "BRIDGE", 12: "BUISGL", 13: "BUAARE", 14: "BOYCAR", 15: "BOYINB",
	16: "BOYISD", 17: "BOYLAT", 18: "BOYSAW", 19: "BOYSPP", 20: "CBLARE",
	21: "CBLOHD", 22: "CBLSUB", 23: "CANALS", 24: "CANBNK", 25: "CTSARE",
	30: "COALNE", 42: "DEPARE", 43: "DEPCNT", 46: "DRGARE", 51: "FAIRWY",
	58: "FOGSIG", 63: "HRBARE", 64: "HRBFAC", 71: "LNDARE", 74: "LNDMRK",
	75: "LIGHTS", 84: "MORFAC", 86: "OBSTRN", 90: "PILPNT", 95: "PONTON",
	103: "RTPBCN", 112: "RESARE", 114: "RIVERS", 119: "SEAARE", 121: "SBDARE",
	122: "SLCONS", 129: "SOUNDG", 132: "STSLNE", 144: "TOPMAR", 148: "TSSLPT",
	153: "UWTROC", 154: "UNSARE", 155: "VEGATN", 159: "WRECKS",
	300: "M_ACCY", 301: "M_CSCL", 302: "M_COVR", 303: "M_HDAT", 304: "M_HOPA",
	305: "M_NPUB", 306: "M_NSYS", 307: "M_PROD", 308: "M_QUAL", 309: "M_SDAT",
	310: "M_SREL", 311: "M_UNIT", 312: "M_VDAT",
	400: "C_AGGR", 401: "C_ASSO", 402: "C_STAC",
}

// attributeNames maps a small set of commonly-seen S-57 attribute codes
// to their mnemonic acronyms. Unlike objectClassNames, this is not the
// full IHO catalogue (see DESIGN.md for why).
var attributeNames = map[int]string{
	1: "AGENCY", 2: "BCNSHP", 6: "COLOUR", 7: "COLPAT", 18: "CONVIS",
	19: "CONRAD", 25: "DATEND", 26: "DATSTA", 28: "DRVAL1", 29: "DRVAL2",
	30: "ELEVAT", 43: "HEIGHT", 56: "LITCHR", 58: "MARSYS", 62: "NATSUR",
	66: "OBJNAM", 71: "ORIENT", 75: "QUASOU", 85: "SIGGRP", 86: "SIGPER",
	89: "SOUACC", 90: "SORDAT", 95: "STATUS", 113: "VALSOU", 118: "WATLEV",
	133: "NOBJNM", 134: "NINFOM", 400: "RECDAT", 401: "RECIND",
}

// ObjectClassNames returns a copy of the OBJL-to-mnemonic table, for
// callers that need to look up a code by mnemonic.
func ObjectClassNames() map[int]string {
	cp := make(map[int]string, len(objectClassNames))
	for k, v := range objectClassNames {
		cp[k] = v
	}
	return cp
}

// IsKnownObjectClass reports whether code has a catalogue entry.
func IsKnownObjectClass(code int) bool {
	_, ok := objectClassNames[code]
	return ok
}

// ObjectClassToString converts an OBJL code to its mnemonic. Unknown
// codes format as OBJL_<n> rather than erroring.
func ObjectClassToString(code int) string {
	if name, ok := objectClassNames[code]; ok {
		return name
	}
	return fmt.Sprintf("OBJL_%d", code)
}

// AttributeCodeToString converts an attribute code to its mnemonic.
// Unknown codes format as ATTR_<n> rather than erroring.
func AttributeCodeToString(code int) string {
	if name, ok := attributeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("ATTR_%d", code)
}
