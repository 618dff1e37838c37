package entity

import "time"

// EconomicGroup representa el tenant raíz del sistema contable: agrupa
// empresas, un plan de cuentas y una configuración contable propia.
type EconomicGroup struct {
	ID              int64
	Name            string
	ControllerTaxID *string // RUT de la sociedad controlante (12 dígitos) o nil
	PrimaryCountry  string  // código ISO 3166-1 alfa-2
	BaseCurrency    string  // código ISO 4217
	Active          bool
	CreatedAt       time.Time

	// CompanyCount se calcula en los listados; las relaciones se cargan
	// solo en la consulta de detalle.
	CompanyCount int
	Companies    []Company
	Chart        *ChartOfAccounts
	Config       *AccountingConfig
}

// Países soportados por la plataforma.
var ValidCountries = []string{"UY", "AR", "BR", "CL", "PY", "US"}

// Monedas soportadas por la plataforma.
var ValidCurrencies = []string{"UYU", "ARS", "BRL", "CLP", "PYG", "USD", "EUR"}

// Restricción país-moneda: para grupos con sede en Uruguay la moneda base
// debe ser peso uruguayo o dólar. Los demás países no tienen restricción.
const HomeCountry = "UY"

var HomeCountryCurrencies = []string{"UYU", "USD"}

// IsValidCountry informa si el código de país está soportado.
func IsValidCountry(code string) bool {
	for _, c := range ValidCountries {
		if c == code {
			return true
		}
	}
	return false
}

// IsValidCurrency informa si el código de moneda está soportado.
func IsValidCurrency(code string) bool {
	for _, c := range ValidCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// CurrencyAllowedForCountry aplica la restricción país-moneda.
func CurrencyAllowedForCountry(country, currency string) bool {
	if country != HomeCountry {
		return true
	}
	for _, c := range HomeCountryCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}
