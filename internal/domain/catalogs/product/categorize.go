package product

import "strings"

// categoryRule maps name substrings to a category/subcategory pair.
// Rules are tried in order, first match wins.
type categoryRule struct {
	patterns    []string
	category    string
	subcategory string
}

var categoryRules = []categoryRule{
	{[]string{"виски", "whisky", "whiskey", "бурбон"}, "Крепкий алкоголь", "Виски"},
	{[]string{"коньяк", "cognac", "арманьяк"}, "Крепкий алкоголь", "Коньяк"},
	{[]string{"водка", "vodka"}, "Крепкий алкоголь", "Водка"},
	{[]string{"ром ", "rum"}, "Крепкий алкоголь", "Ром"},
	{[]string{"джин", "gin"}, "Крепкий алкоголь", "Джин"},
	{[]string{"текила", "tequila"}, "Крепкий алкоголь", "Текила"},
	{[]string{"ликер", "ликёр", "liqueur"}, "Крепкий алкоголь", "Ликёры"},
	{[]string{"шампанское", "игристое", "просекко", "prosecco"}, "Вино", "Игристое"},
	{[]string{"вино", "wine"}, "Вино", ""},
	{[]string{"вермут", "vermouth"}, "Вино", "Вермут"},
	{[]string{"пиво", "beer", "эль "}, "Пиво", ""},
	{[]string{"сидр", "cider"}, "Пиво", "Сидр"},
	{[]string{"сок", "вода", "тоник", "лимонад", "кола"}, "Безалкогольное", ""},
	{[]string{"сигарет", "табак", "стики"}, "Табак", ""},
	{[]string{"шоколад", "чипсы", "орех", "снек"}, "Закуски", ""},
}

// DetectCategory infers a category and subcategory from the product name.
// Matching is case-insensitive substring search; the boolean reports
// whether any rule matched.
func DetectCategory(name string) (category, subcategory string, ok bool) {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.category, rule.subcategory, true
			}
		}
	}
	return "", "", false
}

// AutoCategorize fills Category/Subcategory from the name when unset.
// Explicitly set values are never overwritten.
func AutoCategorize(p *Product) {
	if p.Category != "" {
		return
	}
	if category, subcategory, ok := DetectCategory(p.Name); ok {
		p.Category = category
		if p.Subcategory == "" {
			p.Subcategory = subcategory
		}
	}
}
