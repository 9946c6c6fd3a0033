// Package domain defines the compendium entities, the character document
// model, and the encoding rules (slugs, currency, closed enums) shared by the
// storage and service layers.
package domain
