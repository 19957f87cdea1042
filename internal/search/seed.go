// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package search

// FoodSeed is the default vocabulary granted to every user before any
// of their own item titles are indexed.
var FoodSeed = []string{
	"Apples",
	"Apple Juice",
	"Avocado",
	"Bacon",
	"Bananas",
	"Basil",
	"Beef",
	"Bread",
	"Broccoli",
	"Butter",
	"Carrots",
	"Cereal",
	"Cheese",
	"Chicken",
	"Chocolate",
	"Coffee",
	"Cornflakes",
	"Cucumber",
	"Eggs",
	"Flour",
	"Garlic",
	"Grapes",
	"Ham",
	"Honey",
	"Ice Cream",
	"Ketchup",
	"Lemons",
	"Lettuce",
	"Milk",
	"Mushrooms",
	"Mustard",
	"Noodles",
	"Olive Oil",
	"Onions",
	"Oranges",
	"Pasta",
	"Peanut Butter",
	"Pepper",
	"Potatoes",
	"Rice",
	"Salmon",
	"Salt",
	"Spinach",
	"Strawberries",
	"Sugar",
	"Tea",
	"Toilet Paper",
	"Tomatoes",
	"Tuna",
	"Yogurt",
}
