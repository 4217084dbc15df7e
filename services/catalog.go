package services

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog holds the closed option sets accepted on an order
type Catalog struct {
	Channels       []string `yaml:"channels"        json:"channels"`
	Products       []string `yaml:"products"        json:"products"`
	PaymentMethods []string `yaml:"payment_methods" json:"payment_methods"`
}

// DefaultCatalog returns the options the store works with out of the box
func DefaultCatalog() Catalog {
	return Catalog{
		Channels: []string{
			"DISK ENTREGA", "APP GAS", "PRECO DO GAS", "PORTARIA",
			"GAS DO POVO PORTARIA", "DISK GOOGLE - HENRIQUE", "TAXA DISK GAS POVO",
		},
		Products: []string{
			"Gás 13kls", "Água Mineral", "Botijão 45kls",
			"Botijão 13kls completo", "Água Mineral completa",
		},
		PaymentMethods: []string{
			"Dinheiro", "Pix", "Débito", "Crédito", "ON LINE",
		},
	}
}

// LoadCatalog reads a YAML catalog file. Lists missing from the file keep
// their defaults. An empty path returns the default catalog.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	if len(override.Channels) > 0 {
		catalog.Channels = override.Channels
	}
	if len(override.Products) > 0 {
		catalog.Products = override.Products
	}
	if len(override.PaymentMethods) > 0 {
		catalog.PaymentMethods = override.PaymentMethods
	}
	return catalog, nil
}

// Validate rejects channel, product or payment values outside the catalog
func (c Catalog) Validate(channel, product, paymentMethod string) error {
	if !slices.Contains(c.Channels, channel) {
		return &ValidationError{Field: "channel", Message: fmt.Sprintf("unknown channel %q", channel)}
	}
	if !slices.Contains(c.Products, product) {
		return &ValidationError{Field: "product", Message: fmt.Sprintf("unknown product %q", product)}
	}
	if !slices.Contains(c.PaymentMethods, paymentMethod) {
		return &ValidationError{Field: "payment_method", Message: fmt.Sprintf("unknown payment method %q", paymentMethod)}
	}
	return nil
}
