// Package seed holds the restaurant's starting menu.
package seed

import "github.com/restaurant/services/menu/internal/entity"

type row struct {
	id          int
	category    string
	description string
	price       float64
	vegetarian  bool
}

var rows = []row{
	{101, "APP", "beet and orange salad", 16, true},
	{102, "APP", "oysters rockefeller", 20, false},
	{103, "APP", "pan seared foie gras", 28, false},
	{104, "APP", "porchini and asparagus risotto", 15, true},
	{105, "APP", "beef carpaccio", 18, false},
	{106, "APP", "diver digby scallops three ways", 22, false},
	{107, "APP", "ahi tuna", 24, false},
	{108, "APP", "calamari", 15, false},
	{109, "APP", "crab cake", 13, false},
	{110, "APP", "caprese salad with pine nuts", 16, true},
	{111, "APP", "braised rabbit canneloni", 16, false},
	{112, "APP", "half moon river clams", 20, false},
	{113, "APP", "black-eyed pea patty with tomato relish", 15, false},
	{114, "APP", "french onion soup", 15, true},
	{201, "ENT", "black cod", 28, false},
	{202, "ENT", "seared digby scallops on leek fettuccine", 30, false},
	{203, "ENT", "duck two ways", 28, false},
	{204, "ENT", "herb crusted rack of lamb", 32, false},
	{205, "ENT", "boneless quails stuffed with foie gras and truffles", 32, false},
	{206, "ENT", "fresh pasta with arugula and cherry tomatoes", 22, true},
	{207, "ENT", "lamb shank nehari", 28, false},
	{208, "ENT", "beef tenderloin", 38, false},
	{209, "ENT", "chicken valdostana", 25, false},
	{210, "ENT", "char grilled AAA tenderloin with grilled shrimp", 42, false},
	{211, "ENT", "ratatouille with garlic beans and saffron rice", 27, true},
	{212, "ENT", "boeuf bourguignon", 34, false},
	{213, "ENT", "sweet potato ravioli with apricot moustarda", 30, true},
	{214, "ENT", "baked sage grits and vegetable hash", 28, true},
	{215, "ENT", "parmesan dusted flounder with spiced quail", 30, false},
	{301, "DES", "lemon tart", 12, true},
	{302, "DES", "une meule", 14, true},
	{303, "DES", "baked alaska", 16, true},
	{304, "DES", "mignardises", 9, true},
	{305, "DES", "house made gelato", 9, true},
	{306, "DES", "creme brulee", 13, true},
	{307, "DES", "seasonal berries with cream", 11, true},
	{308, "DES", "rhubarb trifle with mascarpone", 12, true},
	{309, "DES", "doughnut and jam sampler", 13, true},
	{310, "DES", "chocolate mousse", 12, true},
}

// Items returns the seed menu, ascending by id.
func Items() []entity.MenuItem {
	items := make([]entity.MenuItem, 0, len(rows))
	for _, r := range rows {
		item, err := entity.New(r.id, r.category, r.description, r.price, r.vegetarian)
		if err != nil {
			panic("seed: " + err.Error())
		}
		items = append(items, item)
	}
	return items
}
