package detect

// DefaultTimezones maps IANA zone identifiers to catalog country codes.
var DefaultTimezones = map[string]string{
	"America/Guayaquil":              "ec",
	"Pacific/Galapagos":              "ec",
	"America/Argentina/Buenos_Aires": "ar",
	"America/Argentina/Cordoba":      "ar",
	"America/Argentina/Mendoza":      "ar",
	"America/Argentina/Salta":        "ar",
	"America/Argentina/Tucuman":      "ar",
	"America/Argentina/Jujuy":        "ar",
	"America/Argentina/Catamarca":    "ar",
	"America/Argentina/La_Rioja":     "ar",
	"America/Argentina/San_Juan":     "ar",
	"America/Argentina/San_Luis":     "ar",
	"America/Argentina/Ushuaia":      "ar",
	"America/Argentina/Rio_Gallegos": "ar",
	"America/Sao_Paulo":              "br",
	"America/Fortaleza":              "br",
	"America/Recife":                 "br",
	"America/Bahia":                  "br",
	"America/Belem":                  "br",
	"America/Manaus":                 "br",
	"America/Cuiaba":                 "br",
	"America/Campo_Grande":           "br",
	"America/Santiago":               "cl",
	"America/Punta_Arenas":           "cl",
	"Pacific/Easter":                 "cl",
	"America/Bogota":                 "co",
	"America/Costa_Rica":             "cr",
	"Europe/Berlin":                  "de",
	"Europe/Madrid":                  "es",
	"Atlantic/Canary":                "es",
	"Asia/Kolkata":                   "in",
	"Asia/Calcutta":                  "in",
	"Europe/Rome":                    "it",
	"America/Mexico_City":            "mx",
	"America/Cancun":                 "mx",
	"America/Monterrey":              "mx",
	"America/Merida":                 "mx",
	"America/Chihuahua":              "mx",
	"America/Mazatlan":               "mx",
	"America/Hermosillo":             "mx",
	"America/Tijuana":                "mx",
	"America/Lima":                   "pe",
	"Asia/Manila":                    "ph",
	"Europe/Lisbon":                  "pt",
	"Atlantic/Madeira":               "pt",
	"Atlantic/Azores":                "pt",
	"America/Asuncion":               "py",
	"Europe/Zurich":                  "ch",
	"America/New_York":               "us",
	"America/Chicago":                "us",
	"America/Denver":                 "us",
	"America/Los_Angeles":            "us",
	"America/Phoenix":                "us",
	"America/Anchorage":              "us",
	"Pacific/Honolulu":               "us",
	"America/Indiana/Indianapolis":   "us",
	"America/Detroit":                "us",
	"America/Boise":                  "us",
	"America/Montevideo":             "uy",
	"Africa/Johannesburg":            "za",
	"Australia/Sydney":               "au",
	"Australia/Melbourne":            "au",
	"Australia/Perth":                "au",
	"Australia/Brisbane":             "au",
	"Australia/Adelaide":             "au",
	"Australia/Hobart":               "au",
	"Australia/Darwin":               "au",
}
