// Package citycode maps city names to short codes used in sale numbers.
// Number format: {CODE}-{NNNN} (e.g. PM-0001, EK-0042).
package citycode

// cityCodes maps a city name (as stored on supplier records) to its code.
// Several historical aliases map to the same code.
var cityCodes = map[string]string{
	"Волгоград":       "VG",
	"Воронеж":         "VR",
	"Иркутск":         "IR",
	"Казань":          "KZ",
	"Калининград":     "KL",
	"КЛД":             "KL",
	"Красноярск":      "KR",
	"Краснодар":       "KD",
	"Нижний Новгород": "NN",
	"НН":              "NN",
	"Новосибирск":     "NS",
	"НСК":             "NS",
	"Омск":            "OM",
	"Пермь":           "PM",
	"Ростов":          "RS",
	"Самара":          "SM",
	"Саратов":         "SR",
	"Санкт-Петербург": "SP",
	"СПБ":             "SP",
	"Сочи":            "SO",
	"Сургут":          "SU",
	"Тюмень":          "TM",
	"Уфа":             "UF",
	"Екатеринбург":    "EK",
	"Челябинск":       "CH",
	"Барнаул":         "BR",
	"Владивосток":     "VL",
	"Хабаровск":       "HB",
	"Ярославль":       "YR",
}

// Code returns the code for a city name. Unknown names report ok=false;
// callers must not invent a code for them.
func Code(cityName string) (string, bool) {
	code, ok := cityCodes[cityName]
	return code, ok
}
