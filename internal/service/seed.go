package service

import "github.com/asquebay/bird-events-service/internal/model"

// SeedBirds — начальный набор птиц для пустой базы
var SeedBirds = []model.NewBird{
	{
		Name:    "Black-Capped Chickadee",
		Species: "Poecile Atricapillus",
		Image:   "./images/black-capped-chickadee.svg",
	},
	{
		Name:    "Grackle",
		Species: "Quiscalus Quiscula",
		Image:   "./images/grackle.svg",
	},
	{
		Name:    "Common Starling",
		Species: "Sturnus Vulgaris",
		Image:   "./images/starling.svg",
	},
	{
		Name:    "Mourning Dove",
		Species: "Zenaida Macroura",
		Image:   "./images/dove.svg",
	},
}
