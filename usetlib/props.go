package usetlib

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/rangetable"
)

// canonProp applies UCD loose matching: ASCII letters lowercased,
// whitespace, underscores and hyphens stripped.
func canonProp(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '_' || r == '-':
		case unicode.IsSpace(r):
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// https://www.unicode.org/reports/tr44/#GC_Values_Table
// Loose-matched alias -> canonical General_Category key. The one-letter
// groups come straight from unicode.Categories; LC and Cn are derived.
var gcAliases = map[string]string{
	"lu": "Lu", "uppercaseletter": "Lu",
	"ll": "Ll", "lowercaseletter": "Ll",
	"lt": "Lt", "titlecaseletter": "Lt",
	"lm": "Lm", "modifierletter": "Lm",
	"lo": "Lo", "otherletter": "Lo",
	"l": "L", "letter": "L",
	"lc": "LC", "casedletter": "LC",
	"mn": "Mn", "nonspacingmark": "Mn",
	"mc": "Mc", "spacingmark": "Mc", "spacingcombiningmark": "Mc",
	"me": "Me", "enclosingmark": "Me",
	"m": "M", "mark": "M", "combiningmark": "M",
	"nd": "Nd", "decimalnumber": "Nd", "digit": "Nd",
	"nl": "Nl", "letternumber": "Nl",
	"no": "No", "othernumber": "No",
	"n": "N", "number": "N",
	"pc": "Pc", "connectorpunctuation": "Pc",
	"pd": "Pd", "dashpunctuation": "Pd",
	"ps": "Ps", "openpunctuation": "Ps",
	"pe": "Pe", "closepunctuation": "Pe",
	"pi": "Pi", "initialpunctuation": "Pi",
	"pf": "Pf", "finalpunctuation": "Pf",
	"po": "Po", "otherpunctuation": "Po",
	"p": "P", "punctuation": "P", "punct": "P",
	"sm": "Sm", "mathsymbol": "Sm",
	"sc": "Sc", "currencysymbol": "Sc",
	"sk": "Sk", "modifiersymbol": "Sk",
	"so": "So", "othersymbol": "So",
	"s": "S", "symbol": "S",
	"zs": "Zs", "spaceseparator": "Zs",
	"zl": "Zl", "lineseparator": "Zl",
	"zp": "Zp", "paragraphseparator": "Zp",
	"z": "Z", "separator": "Z",
	"cc": "Cc", "control": "Cc", "cntrl": "Cc",
	"cf": "Cf", "format": "Cf",
	"co": "Co", "privateuse": "Co",
	"cs": "Cs", "surrogate": "Cs",
	"cn": "Cn", "unassigned": "Cn",
	"c": "C", "other": "C",
}

// https://www.unicode.org/reports/tr24/ common four-letter script codes for
// the scripts the stdlib tables carry under their long names.
var scriptCodes = map[string]string{
	"latn": "Latin", "grek": "Greek", "cyrl": "Cyrillic", "arab": "Arabic",
	"hebr": "Hebrew", "deva": "Devanagari", "beng": "Bengali", "taml": "Tamil",
	"thai": "Thai", "hani": "Han", "hang": "Hangul", "hira": "Hiragana",
	"kana": "Katakana", "armn": "Armenian", "geor": "Georgian", "ethi": "Ethiopic",
	"mymr": "Myanmar", "khmr": "Khmer", "mong": "Mongolian", "tibt": "Tibetan",
}

// Abbreviated binary property names -> unicode.Properties long names,
// loose-matched. https://www.unicode.org/Public/UCD/latest/ucd/PropertyAliases.txt
var boolAbbrevs = map[string]string{
	"wspace": "whitespace",
	"space":  "whitespace",
	"qmark":  "quotationmark",
	"ahex":   "asciihexdigit",
	"hex":    "hexdigit",
	"nchar":  "noncharactercodepoint",
	"pats":   "patternsyntax",
	"patws":  "patternwhitespace",
	"ideo":   "ideographic",
	"sd":     "softdotted",
	"term":   "terminalpunctuation",
	"vs":     "variationselector",
	"joinc":  "joincontrol",
	"dep":    "deprecated",
	"dia":    "diacritic",
	"ext":    "extender",
	"uideo":  "unifiedideograph",
	"idsb":   "idsbinaryoperator",
	"idst":   "idstrinaryoperator",
	"loe":    "logicalorderexception",
}

// https://www.unicode.org/reports/tr44/#Binary_Values_Table
var binaryValues = map[string]bool{
	"yes": true, "y": true, "true": true, "t": true,
	"no": false, "n": false, "false": false, "f": false,
}

var (
	gcSets      map[string]IntervalSet
	scriptSets  map[string]IntervalSet
	boolSets    map[string]IntervalSet
	derivedSets map[string]IntervalSet // Any/Assigned/ASCII, POSIX classes, quote marks
	blockSets   map[string]IntervalSet
	registered  = map[string]IntervalSet{}
)

func init() {
	gcSets = make(map[string]IntervalSet, len(unicode.Categories)+2)
	for name, rt := range unicode.Categories {
		gcSets[name] = FromRangeTable(rt)
	}
	gcSets["LC"] = FromRangeTable(rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt))
	assigned := FromRangeTable(rangetable.Merge(
		unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C))
	gcSets["Cn"] = assigned.Complement()

	scriptSets = make(map[string]IntervalSet, len(unicode.Scripts))
	for name, rt := range unicode.Scripts {
		scriptSets[canonProp(name)] = FromRangeTable(rt)
	}

	boolSets = make(map[string]IntervalSet, len(unicode.Properties))
	for name, rt := range unicode.Properties {
		boolSets[canonProp(name)] = FromRangeTable(rt)
	}

	blockSets = make(map[string]IntervalSet, len(blockRanges))
	for _, b := range blockRanges {
		blockSets[canonProp(b.name)] = span(b.lo, b.hi)
	}

	buildDerived(assigned)
}

func buildDerived(assigned IntervalSet) {
	alpha := FromRangeTable(rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_Alphabetic))
	graph := assigned.Difference(gcSets["Z"].Union(gcSets["C"]))

	qm := FromRangeTable(unicode.Quotation_Mark)
	qmLeft := qm.Intersect(gcSets["Pi"].Union(gcSets["Ps"]))
	qmRight := qm.Intersect(gcSets["Pf"].Union(gcSets["Pe"]))

	derivedSets = map[string]IntervalSet{
		"any":      span(0, MaxCodepoint),
		"assigned": assigned,
		"ascii":    span(0, 0x7F),

		"alpha":  alpha,
		"alnum":  alpha.Union(gcSets["Nd"]),
		"blank":  gcSets["Zs"].Union(singleton(0x09)),
		"graph":  graph,
		"print":  graph.Union(gcSets["Zs"]),
		"lower":  FromRangeTable(rangetable.Merge(unicode.Ll, unicode.Other_Lowercase)),
		"upper":  FromRangeTable(rangetable.Merge(unicode.Lu, unicode.Other_Uppercase)),
		"xdigit": gcSets["Nd"].Union(FromRangeTable(unicode.Hex_Digit)),
		"word":   alpha.Union(gcSets["M"]).Union(gcSets["Nd"]).Union(gcSets["Pc"]),

		"quotemark":             qm,
		"quotemarkleft":         qmLeft,
		"quotemarkright":        qmRight,
		"quotemarkambidextrous": qm.Difference(qmLeft.Union(qmRight)),
		"quotemarksingle":       FromRangeTable(rangetable.New(0x27, 0x2018, 0x2019, 0x201A, 0x201B, 0x2039, 0x203A, 0xFF07)),
		"quotemarkdouble":       FromRangeTable(rangetable.New(0x22, 0xAB, 0xBB, 0x201C, 0x201D, 0x201E, 0x201F, 0xFF02)),
	}
}

// RegisterTable extends the property data with an additional boolean table
// under the given name. Call before any pattern is resolved; the tables are
// treated as read-only once resolution starts.
func RegisterTable(name string, rt *unicode.RangeTable) {
	registered[canonProp(name)] = FromRangeTable(rt)
}

// Canonical_Combining_Class interval data, derived once from the
// normalization tables by scanning the scalar range. The Once publishes the
// map with a happens-before edge for all later readers.
var (
	cccOnce    sync.Once
	cccSets    map[int]IntervalSet
	cccNonzero IntervalSet
)

func cccData() (map[int]IntervalSet, IntervalSet) {
	cccOnce.Do(func() {
		byClass := map[int][]Interval{}
		for r := rune(0); r <= MaxCodepoint; r++ {
			if r >= 0xD800 && r <= 0xDFFF {
				continue
			}
			c := int(norm.NFD.PropertiesString(string(r)).CCC())
			if c == 0 {
				continue
			}
			byClass[c] = append(byClass[c], Interval{r, r})
		}
		sets := make(map[int]IntervalSet, len(byClass))
		var nonzero IntervalSet
		for class, iv := range byClass {
			s := normalize(iv)
			sets[class] = s
			nonzero = nonzero.Union(s)
		}
		cccSets = sets
		cccNonzero = nonzero
	})
	return cccSets, cccNonzero
}

// resolveProperty expands a property reference into an interval set.
// Negation complements over the full scalar range; property leaves carry no
// string members, so there is nothing else to flip.
func resolveProperty(ptype, value string, negated bool, offset int) (IntervalSet, error) {
	var set IntervalSet
	var err error
	if ptype == propCategoryOrScript {
		set, err = lookupLoose(value, offset)
	} else {
		set, err = lookupTyped(ptype, value, offset)
	}
	if err != nil {
		return nil, err
	}
	if negated {
		set = set.Complement()
	}
	return set, nil
}

// lookupTyped resolves an explicit type=value reference.
func lookupTyped(ptype, value string, offset int) (IntervalSet, error) {
	cv := canonProp(value)
	switch ct := canonProp(ptype); ct {
	case "gc", "generalcategory", "category":
		if key, ok := gcAliases[cv]; ok {
			return gcSets[key], nil
		}
		return nil, patErr(ErrUnknownPropertyValue, offset, "General_Category value %q", value)

	case "sc", "script":
		if set, ok := scriptSets[cv]; ok {
			return set, nil
		}
		if long, ok := scriptCodes[cv]; ok {
			return scriptSets[canonProp(long)], nil
		}
		return nil, patErr(ErrUnknownPropertyValue, offset, "Script value %q", value)

	case "blk", "block":
		if set, ok := blockSets[cv]; ok {
			return set, nil
		}
		return nil, patErr(ErrUnknownPropertyValue, offset, "Block value %q", value)

	case "ccc", "canonicalcombiningclass":
		class, err := strconv.Atoi(cv)
		if err != nil || class < 0 || class > 254 {
			return nil, patErr(ErrUnknownPropertyValue, offset, "combining class %q", value)
		}
		sets, nonzero := cccData()
		if class == 0 {
			return nonzero.Complement(), nil
		}
		return sets[class], nil // absent classes are empty, not an error

	default:
		// boolean property with an explicit yes/no value
		set, ok := lookupBool(ct)
		if !ok {
			return nil, patErr(ErrUnknownProperty, offset, "%q", ptype)
		}
		truth, ok := binaryValues[cv]
		if !ok {
			return nil, patErr(ErrUnknownPropertyValue, offset, "%q is not a binary value", value)
		}
		if !truth {
			return set.Complement(), nil
		}
		return set, nil
	}
}

// lookupLoose resolves a bare value the way [:Lu:] and \p{Letter} demand:
// General_Category first, then Script, then boolean properties, then the
// derived sets. First match wins.
func lookupLoose(value string, offset int) (IntervalSet, error) {
	cv := canonProp(value)
	if set, ok := derivedSets[cv]; ok && (cv == "any" || cv == "assigned" || cv == "ascii") {
		return set, nil
	}
	if key, ok := gcAliases[cv]; ok {
		return gcSets[key], nil
	}
	if set, ok := scriptSets[cv]; ok {
		return set, nil
	}
	if long, ok := scriptCodes[cv]; ok {
		return scriptSets[canonProp(long)], nil
	}
	if set, ok := lookupBool(cv); ok {
		return set, nil
	}
	if set, ok := derivedSets[cv]; ok {
		return set, nil
	}
	return nil, patErr(ErrUnknownProperty, offset, "%q", value)
}

func lookupBool(name string) (IntervalSet, bool) {
	if long, ok := boolAbbrevs[name]; ok {
		name = long
	}
	if set, ok := boolSets[name]; ok {
		return set, true
	}
	set, ok := registered[name]
	return set, ok
}
