// Package refdata serves the static pick-lists used by registration and
// directory filtering. The lists are compiled in; they change with releases,
// not at runtime.
package refdata

var cities = []string{
	"Ahmedabad",
	"Bengaluru",
	"Bhopal",
	"Chandigarh",
	"Chennai",
	"Delhi",
	"Hyderabad",
	"Jaipur",
	"Kochi",
	"Kolkata",
	"Lucknow",
	"Mumbai",
	"Nagpur",
	"Patna",
	"Pune",
	"Surat",
}

var lawTypes = []string{
	"Civil Law",
	"Constitutional Law",
	"Consumer Protection",
	"Corporate Law",
	"Criminal Law",
	"Cyber Law",
	"Family Law",
	"Intellectual Property",
	"Labour Law",
	"Property Law",
	"Tax Law",
}

var languages = []string{
	"Bengali",
	"English",
	"Gujarati",
	"Hindi",
	"Kannada",
	"Malayalam",
	"Marathi",
	"Punjabi",
	"Tamil",
	"Telugu",
	"Urdu",
}

func Cities() []string    { return clone(cities) }
func LawTypes() []string  { return clone(lawTypes) }
func Languages() []string { return clone(languages) }

// IsKnownCity reports whether v is in the city pick-list.
func IsKnownCity(v string) bool { return contains(cities, v) }

// IsKnownLawType reports whether v is in the law-type pick-list.
func IsKnownLawType(v string) bool { return contains(lawTypes, v) }

// IsKnownLanguage reports whether v is in the language pick-list.
func IsKnownLanguage(v string) bool { return contains(languages, v) }

func clone(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func contains(src []string, v string) bool {
	for _, s := range src {
		if s == v {
			return true
		}
	}
	return false
}
