package normalize

import (
	"regexp"
	"strings"
)

// Condominium marks an address the geocoder should not attempt: unit
// level detail inside a gated complex has no street-level coordinate.
const Condominium = "Condominio"

// Quadra (block) markers: "QUADRA 12", "QD 12", "Q.12", "QD.12".
var reQuadra = regexp.MustCompile(`(?:\bQUADRA|\bQ\.?D?\.?)\s*0*([0-9]+[A-Z]?)\b`)

// Lote (lot) markers: "LOTE 10", "LT 10", "L.10".
var reLote = regexp.MustCompile(`(?:\bLOTE|\bL\.?T?\.?)\s*0*([0-9]+[A-Z]?)\b`)

// Fallback "12-34" pair when no explicit quadra/lote marker exists.
var reBlockPair = regexp.MustCompile(`\b([0-9]+[A-Z]?)\s*-\s*([0-9]+[A-Z]?)\b`)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reRuaPrefix  = regexp.MustCompile(`(^|\s)R\.?\s+`)
	reAvPrefix   = regexp.MustCompile(`(^|\s)AV\.?\s+`)
	reDigitAlpha = regexp.MustCompile(`([0-9])([A-Z])`)
	reAlphaDigit = regexp.MustCompile(`([A-Z])([0-9])`)
)

// Markers that mean "no usable block/lot value".
var invalidFragments = map[string]bool{
	"0": true, "00": true, "SN": true, "S/N": true, "NULL": true,
}

// Keywords that flag unit-level condominium addresses, with the two
// neighbourhood names that contain a keyword but are ordinary streets.
var reCondominium = regexp.MustCompile(`\b(?:COND|CONDOMINIO|CONDOMÍNIO|EDIFÍCIO|BLOCO|APARTAMENTO|APTO|APT|BL|AP)\b`)

var condominiumExceptions = []string{"RESIDENCIAL CANADA", "VEREDA DOS BURITIS"}

// Separators that end the street-name portion of an address.
var streetSeparators = []string{",", " - ", " Nº", " NUMERO", " CASA", " APT", " APTO"}

// CanonicalAddress formats a raw address into the "STREET, BLOCK-LOT"
// form. District context participates only in condominium detection.
// Addresses recognised as condominium units return the Condominium
// marker; addresses without a block/lot pair return the cleaned street
// alone. Empty input returns an empty string.
func CanonicalAddress(raw, district string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	text = reSpaces.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "/", " ")

	if isCondominium(strings.ToUpper(text + " " + district)) {
		return Condominium
	}

	upper := strings.ToUpper(text)
	// "RI17" -> "RI 17" so the marker regexes can see token boundaries.
	upper = reDigitAlpha.ReplaceAllString(upper, "$1 $2")
	upper = reAlphaDigit.ReplaceAllString(upper, "$1 $2")
	upper = reRuaPrefix.ReplaceAllString(upper, "${1}RUA ")
	upper = reAvPrefix.ReplaceAllString(upper, "${1}AVENIDA ")

	quadra, quadraAt := firstSubmatch(reQuadra, upper)
	lote, loteAt := firstSubmatch(reLote, upper)

	fallbackAt := -1
	if quadra == "" || lote == "" {
		if m := reBlockPair.FindStringSubmatchIndex(upper); m != nil {
			if quadra == "" {
				quadra = upper[m[2]:m[3]]
			}
			if lote == "" {
				lote = upper[m[4]:m[5]]
			}
			fallbackAt = m[0]
		}
	}

	if invalidFragments[quadra] {
		quadra = ""
	}
	if invalidFragments[lote] {
		lote = ""
	}

	street := streetBase(upper, quadraAt, loteAt, fallbackAt)

	if quadra != "" && lote != "" {
		return street + ", " + quadra + "-" + lote
	}
	if quadra != "" {
		return street + ", Q-" + quadra
	}
	return street
}

func isCondominium(text string) bool {
	for _, exc := range condominiumExceptions {
		if strings.Contains(text, exc) {
			return false
		}
	}
	return reCondominium.MatchString(text)
}

func firstSubmatch(re *regexp.Regexp, text string) (string, int) {
	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return "", -1
	}
	return text[m[2]:m[3]], m[0]
}

// streetBase cuts the street name at the first separator or the first
// quadra/lote marker, whichever comes first, then strips trailing
// punctuation.
func streetBase(text string, markerAt ...int) string {
	cut := len(text)
	for _, sep := range streetSeparators {
		if idx := strings.Index(text, sep); idx != -1 && idx < cut {
			cut = idx
		}
	}
	for _, at := range markerAt {
		if at != -1 && at < cut {
			cut = at
		}
	}
	return strings.TrimRight(strings.TrimSpace(text[:cut]), " ,-./")
}
