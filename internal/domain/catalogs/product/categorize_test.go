package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subcategory string
		matched     bool
	}{
		{"Коньяк Арарат 5 лет 0.5л", "Крепкий алкоголь", "Коньяк", true},
		{"Водка Белуга 0.7л", "Крепкий алкоголь", "Водка", true},
		{"Вино Кьянти красное сухое", "Вино", "", true},
		{"Шампанское Абрау-Дюрсо", "Вино", "Игристое", true},
		{"Пиво Жигулёвское светлое 0.5л", "Пиво", "", true},
		{"Тоник Schweppes 0.33л", "Безалкогольное", "", true},
		{"WHISKY Jameson 0.7L", "Крепкий алкоголь", "Виски", true},
		{"Нечто неизвестное", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, subcategory, ok := DetectCategory(tt.name)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.subcategory, subcategory)
		})
	}
}

func TestAutoCategorize_KeepsExplicitValues(t *testing.T) {
	p := Product{Name: "Водка Белуга 0.7л", Category: "Подарочные наборы"}
	AutoCategorize(&p)
	assert.Equal(t, "Подарочные наборы", p.Category)
	assert.Empty(t, p.Subcategory)

	unset := Product{Name: "Водка Белуга 0.7л"}
	AutoCategorize(&unset)
	assert.Equal(t, "Крепкий алкоголь", unset.Category)
	assert.Equal(t, "Водка", unset.Subcategory)
}
