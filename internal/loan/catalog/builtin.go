package catalog

// builtinProducts is the seeded Norwegian consumer loan catalog.
var builtinProducts = []LoanProduct{
	{
		ID:               "bank-norwegian-forbruk",
		BankName:         "Bank Norwegian",
		ProductName:      "Forbrukslån",
		MinAmount:        50000,
		MaxAmount:        500000,
		MinRate:          5.9,
		MaxRate:          19.9,
		EstablishmentFee: 0,
		Features: []string{
			"Ingen etableringsgebyr",
			"Fleksible nedbetalinger",
			"Tidlig innfrielse uten gebyr",
			"Rask behandling",
		},
		Requirements: Requirements{
			MinIncome:         250000,
			MaxDebtRatio:      0.4,
			EmploymentTypes:   []string{EmploymentPermanent, EmploymentSelfEmployed},
			CreditRequirement: []string{CreditExcellent, CreditGood, CreditMedium},
		},
		AffiliateURL: "https://banknorwegian.no/?ref=lansammenligning",
		Commission:   800,
	},
	{
		ID:               "nordax-forbruk",
		BankName:         "Nordax Bank",
		ProductName:      "Forbrukslån",
		MinAmount:        30000,
		MaxAmount:        600000,
		MinRate:          6.4,
		MaxRate:          22.9,
		EstablishmentFee: 1500,
		Features: []string{
			"Rask behandling",
			"Konkurransedyktige renter",
			"Personlig service",
			"Fleksible vilkår",
		},
		Requirements: Requirements{
			MinIncome:         200000,
			MaxDebtRatio:      0.45,
			EmploymentTypes:   []string{EmploymentPermanent, EmploymentTemporary, EmploymentSelfEmployed},
			CreditRequirement: []string{CreditExcellent, CreditGood, CreditMedium},
		},
		AffiliateURL: "https://nordax.no/?ref=lansammenligning",
		Commission:   600,
	},
	{
		ID:               "instabank-forbruk",
		BankName:         "Instabank",
		ProductName:      "Forbrukslån",
		MinAmount:        25000,
		MaxAmount:        500000,
		MinRate:          7.1,
		MaxRate:          24.9,
		EstablishmentFee: 2000,
		Features: []string{
			"Digital søknadsprosess",
			"Svar på minutter",
			"Fleksible vilkår",
			"Ingen skjulte kostnader",
		},
		Requirements: Requirements{
			MinIncome:         180000,
			MaxDebtRatio:      0.5,
			EmploymentTypes:   []string{EmploymentPermanent, EmploymentTemporary, EmploymentSelfEmployed, EmploymentRetired},
			CreditRequirement: []string{CreditExcellent, CreditGood, CreditMedium, CreditPoor},
		},
		AffiliateURL: "https://instabank.no/?ref=lansammenligning",
		Commission:   500,
	},
	{
		ID:               "komplett-forbruk",
		BankName:         "Komplett Bank",
		ProductName:      "Forbrukslån",
		MinAmount:        50000,
		MaxAmount:        400000,
		MinRate:          6.9,
		MaxRate:          21.9,
		EstablishmentFee: 1000,
		Features: []string{
			"Norsk kundeservice",
			"Ingen bindingstid",
			"Gratis refinansiering",
			"Transparent prising",
		},
		Requirements: Requirements{
			MinIncome:         300000,
			MaxDebtRatio:      0.35,
			EmploymentTypes:   []string{EmploymentPermanent},
			CreditRequirement: []string{CreditExcellent, CreditGood},
		},
		AffiliateURL: "https://komplettbank.no/?ref=lansammenligning",
		Commission:   700,
	},
	{
		ID:               "santander-forbruk",
		BankName:         "Santander Consumer Bank",
		ProductName:      "Forbrukslån",
		MinAmount:        20000,
		MaxAmount:        600000,
		MinRate:          8.2,
		MaxRate:          25.9,
		EstablishmentFee: 2500,
		Features: []string{
			"Fleksible nedbetalinger",
			"Mulighet for betalingsfri periode",
			"Refinansieringsmuligheter",
			"Erfaren långiver",
		},
		Requirements: Requirements{
			MinIncome:         150000,
			MaxDebtRatio:      0.55,
			EmploymentTypes:   []string{EmploymentPermanent, EmploymentTemporary, EmploymentSelfEmployed, EmploymentRetired},
			CreditRequirement: []string{CreditExcellent, CreditGood, CreditMedium, CreditPoor},
		},
		AffiliateURL: "https://santanderconsumer.no/?ref=lansammenligning",
		Commission:   400,
	},
}

// Builtin returns the seeded catalog. The seed data is checked by tests, so
// a validation failure here is a programming error.
func Builtin() *Catalog {
	c, err := New(builtinProducts)
	if err != nil {
		panic(err)
	}
	return c
}
