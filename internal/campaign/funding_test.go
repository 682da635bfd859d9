package campaign

import "testing"

func TestCommitmentAmount(t *testing.T) {
	tests := []struct {
		name       string
		price      int64
		percentage int
		want       int64
	}{
		{"forty percent", 555500, 40, 222200},
		{"rounds up", 101, 50, 51},
		{"rounds down", 103, 33, 34},
		{"full price", 777700, 100, 777700},
		{"zero price", 0, 40, 0},
		{"zero percentage", 555500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommitmentAmount(tt.price, tt.percentage); got != tt.want {
				t.Errorf("CommitmentAmount(%d, %d) = %d, want %d", tt.price, tt.percentage, got, tt.want)
			}
		})
	}
}

func TestRemainderAmount(t *testing.T) {
	price := int64(555500)
	commitment := CommitmentAmount(price, 40)
	remainder := RemainderAmount(price, 40)
	if commitment+remainder != price {
		t.Errorf("commitment %d + remainder %d != price %d", commitment, remainder, price)
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		goal    int64
		want    int
	}{
		{"empty", 0, 100000, 0},
		{"half", 50000, 100000, 50},
		{"exact goal", 100000, 100000, 100},
		{"over goal clamps", 150000, 100000, 100},
		{"zero goal reads funded", 0, 0, 100},
		{"rounds down", 999, 100000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.current, tt.goal); got != tt.want {
				t.Errorf("Progress(%d, %d) = %d, want %d", tt.current, tt.goal, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(555500); got != "₹5555.00" {
		t.Errorf("FormatPrice(555500) = %q, want ₹5555.00", got)
	}
	if got := FormatPrice(99); got != "₹0.99" {
		t.Errorf("FormatPrice(99) = %q, want ₹0.99", got)
	}
}
