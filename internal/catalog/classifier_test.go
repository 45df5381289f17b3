package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/formharvest/internal/catalog"
)

func TestIsRelevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		product string
		title   string
		want    bool
	}{
		{
			name:    "individual form prefix",
			product: "1040",
			title:   "U.S. Individual Income Tax Return",
			want:    true,
		},
		{
			name:    "individual form prefix with suffix",
			product: "1040-SR",
			title:   "U.S. Tax Return for Seniors",
			want:    true,
		},
		{
			name:    "withholding form",
			product: "W-4",
			title:   "Employee's Withholding Certificate",
			want:    true,
		},
		{
			name:    "information return",
			product: "1099-MISC",
			title:   "Miscellaneous Information",
			want:    true,
		},
		{
			name:    "business form prefix",
			product: "1120-S",
			title:   "U.S. Income Tax Return for an S Corporation",
			want:    true,
		},
		{
			name:    "employment tax form",
			product: "941",
			title:   "Employer's Quarterly Federal Tax Return",
			want:    true,
		},
		{
			name:    "schedule in product",
			product: "1040 (Schedule C)",
			title:   "Profit or Loss from Business",
			want:    true,
		},
		{
			name:    "schedule in title only",
			product: "8812",
			title:   "Credits for Qualifying Children (Schedule 8812)",
			want:    true,
		},
		{
			name:    "key publication",
			product: "Pub 17",
			title:   "Publication 17, Your Federal Income Tax",
			want:    true,
		},
		{
			name:    "instructions for form",
			product: "i706",
			title:   "Instructions for Form 706",
			want:    true,
		},
		{
			name:    "instructions for schedule",
			product: "i990ez",
			title:   "Instructions for Schedule A",
			want:    true,
		},
		{
			name:    "spanish edition rejected",
			product: "1040",
			title:   "Declaracion de Impuestos, Spanish",
			want:    false,
		},
		{
			name:    "parenthesized version suffix rejected",
			product: "W-4",
			title:   "Employee's Withholding Certificate (SP Version)",
			want:    false,
		},
		{
			name:    "vietnamese edition rejected before schedule accept",
			product: "1040 (Schedule A)",
			title:   "Itemized Deductions (Vietnamese Version)",
			want:    false,
		},
		{
			name:    "chinese edition rejected",
			product: "1040",
			title:   "Tax Return (Chinese-Traditional Version)",
			want:    false,
		},
		{
			name:    "unlisted publication rejected",
			product: "Pub 1",
			title:   "Publication 1, Your Rights as a Taxpayer",
			want:    false,
		},
		{
			name:    "unrelated product rejected",
			product: "706",
			title:   "United States Estate Tax Return",
			want:    false,
		},
		{
			name:    "prefix match is anchored",
			product: "SS-1040",
			title:   "Not a real form",
			want:    false,
		},
		{
			name:    "case insensitive product match",
			product: "w-2",
			title:   "wage and tax statement",
			want:    true,
		},
		{
			name:    "empty record rejected",
			product: "",
			title:   "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &catalog.FormRecord{ProductNumber: tt.product, Title: tt.title}
			assert.Equal(t, tt.want, catalog.IsRelevant(rec))
		})
	}
}

func TestIsRelevant_Deterministic(t *testing.T) {
	t.Parallel()

	rec := &catalog.FormRecord{
		ProductNumber: "1040 (Schedule B)",
		Title:         "Interest and Ordinary Dividends",
	}

	first := catalog.IsRelevant(rec)
	for range 10 {
		assert.Equal(t, first, catalog.IsRelevant(rec))
	}
}
