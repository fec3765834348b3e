package options

import "fmt"

// CategoryEnum is a bitmask of coercion families the registry is allowed
// to apply when a raw value's kind does not match the target kind.
type CategoryEnum int

const (
	CategoryTextNumber  CategoryEnum = 1 << iota // string <-> int, uint, float: textual number representation
	CategoryNumericBool                          // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                          // string <-> bool: "true", "false", "1", "0", "" representation of boolean values
	CategoryFloatToInt                           // float -> int: accepted only when the value is integral
	CategoryNumberText                           // int, uint, float, bool -> string: stringified scalars
	CategoryDatetime                             // string <-> time.Time: layout-driven date and time parsing
	CategoryTimestamp                            // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryEnumString                           // raw scalar <-> registered enum case by value equality

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected
)

// Has reports whether every bit of c is enabled in the receiver.
func (e CategoryEnum) Has(c CategoryEnum) bool {
	return e&c == c
}

var categoryNames = map[string]CategoryEnum{
	"text_number":  CategoryTextNumber,
	"numeric_bool": CategoryNumericBool,
	"textual_bool": CategoryTextualBool,
	"float_to_int": CategoryFloatToInt,
	"number_text":  CategoryNumberText,
	"datetime":     CategoryDatetime,
	"timestamp":    CategoryTimestamp,
	"enum_string":  CategoryEnumString,
	"all":          CategoryAll,
}

// ParseCategory resolves a configuration name to its category bit.
func ParseCategory(name string) (CategoryEnum, error) {
	c, ok := categoryNames[name]
	if !ok {
		return CategoryNone, fmt.Errorf("unknown coercion category %q", name)
	}

	return c, nil
}

// ParseCategories combines a list of configuration names into one mask.
// An empty list means everything is permitted.
func ParseCategories(names []string) (CategoryEnum, error) {
	if len(names) == 0 {
		return CategoryAll, nil
	}

	mask := CategoryNone

	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return CategoryNone, err
		}

		mask |= c
	}

	return mask, nil
}
