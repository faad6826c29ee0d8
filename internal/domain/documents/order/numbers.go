package order

import (
	"fmt"
	"strconv"
	"strings"
)

const numberDigits = 4

// NextNumber produces the order number following last within one city
// prefix. Numbers look like "VG-0042"; an empty or unparseable last
// starts the sequence at 1. The numeric part grows past four digits
// instead of wrapping.
func NextNumber(cityCode, last string) string {
	seq := 0
	if rest, ok := strings.CutPrefix(last, cityCode+"-"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			seq = n
		}
	}
	return fmt.Sprintf("%s-%0*d", cityCode, numberDigits, seq+1)
}
