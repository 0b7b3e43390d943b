package knowledge

import "MedlyChatbot/pkg/nlp"

const (
	SupportEmail = "support@mymedly.in"
	SupportPhone = "8744048726"
	StoreURL     = "https://mymedly.in"
)

func defaultProducts() []nlp.ProductRef {
	return []nlp.ProductRef{
		{ID: "classic", Name: "Classic", Price: "₹799", Link: StoreURL + "/products/classic"},
		{ID: "prime", Name: "Prime", Price: "₹1,300", Link: StoreURL + "/products/prime"},
		{ID: "sports", Name: "Sports", Price: "₹2,000", Link: StoreURL + "/products/sports"},
		{ID: "tumbler", Name: "Tumbler", Price: "₹999", Link: StoreURL + "/products/tumbler"},
	}
}

// Default returns the built-in Medly knowledge table. Entry order matters:
// on equal scores the earlier entry wins, so the product entries are declared
// before the generic price entry.
func Default() *Table {
	products := defaultProducts()
	byID := make(map[string]*nlp.ProductRef, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	entries := []nlp.KnowledgeEntry{
		{
			Intent:   "greeting",
			Keywords: []string{"hi", "hello", "hey", "start", "namaste", "good morning", "good evening"},
			Responses: []string{
				"Hello! Welcome to Medly. I can help you with Warranty, Shipping, Prices, or Product details. What would you like to know?",
				"Hi there, welcome to Medly! Ask me about our bottles, warranty, shipping or returns.",
			},
		},
		{
			Intent:   "warranty",
			Keywords: []string{"warranty", "guarantee", "lifetime", "claim", "replacement", "warranty policy"},
			Responses: []string{
				"Medly offers a **Lifetime Warranty** on heat/cold retention! If your bottle stops working, we replace it. (Note: Physical damage/dents are not covered).",
			},
		},
		{
			Intent:   "shipping",
			Keywords: []string{"shipping", "ship", "delivery", "deliver", "arrive", "reach", "track", "tracking", "dispatch"},
			Responses: []string{
				"We offer **Free Shipping** across India! Deliveries typically take **2-4 business days** for metro cities. You will receive a tracking link via SMS/Email once dispatched.",
			},
		},
		{
			Intent:   "payment",
			Keywords: []string{"cod", "cash", "pay", "payment", "card", "upi", "cash on delivery"},
			Responses: []string{
				"Yes! **Cash on Delivery (COD)** is available. You can order today and pay when the bottle arrives at your doorstep.",
			},
		},
		{
			Intent:    "classic",
			Keywords:  []string{"classic"},
			Responses: []string{"The **Classic** is our everyday favorite. Compact, stylish, and starts at ₹799."},
			Product:   byID["classic"],
		},
		{
			Intent:    "prime",
			Keywords:  []string{"prime"},
			Responses: []string{"The **Prime** is our premium model with a sleek finish, priced around ₹1,300."},
			Product:   byID["prime"],
		},
		{
			Intent:    "sports",
			Keywords:  []string{"sports", "sport", "gym"},
			Responses: []string{"The **Sports** bottle is built for endurance. Rugged, larger capacity, and ready for action."},
			Product:   byID["sports"],
		},
		{
			Intent:    "tumbler",
			Keywords:  []string{"tumbler", "mug", "coffee"},
			Responses: []string{"The **Tumbler** is perfect for coffee or tea on the go."},
			Product:   byID["tumbler"],
		},
		{
			Intent:    "catalog",
			Keywords:  []string{"products", "catalog", "catalogue", "collection", "models", "bottles", "show all"},
			Responses: []string{"Here is the full Medly range. Tap any bottle to see more!"},
			ShowAll:   true,
		},
		{
			Intent:   "price",
			Keywords: []string{"price", "prices", "pricing", "cost", "rate", "rupees", "rs", "how much"},
			Responses: []string{
				"Our prices range from **₹799** (Classic) to **₹2,000** (Sports). Please check the 'Shop' page for the latest discounts and deals!",
			},
		},
		{
			Intent:   "features",
			Keywords: []string{"hot", "cold", "hour", "hours", "temperature", "warm", "cool", "vacuum", "insulated"},
			Responses: []string{
				"Our ZeroAir™ vacuum technology keeps drinks **Hot for 20 Hours** and **Cold for 24 Hours**. Perfect for any weather!",
			},
		},
		{
			Intent:   "returns",
			Keywords: []string{"return", "returns", "refund", "exchange", "broken", "damage", "damaged", "defect", "defective", "return policy", "refund policy"},
			Responses: []string{
				"We have a **7-Day Easy Return Policy** for manufacturing defects or wrong products. Just email us a photo/video, and we'll arrange a free reverse pickup.",
			},
		},
		{
			Intent:   "contact",
			Keywords: []string{"contact", "support", "email", "phone", "call", "number", "talk", "human", "agent"},
			Responses: []string{
				"We are here 24/7! Call us at **" + SupportPhone + "** or email **" + SupportEmail + "**.",
			},
		},
		{
			Intent:   "cleaning",
			Keywords: []string{"clean", "cleaning", "wash", "smell", "care", "soap", "dishwasher"},
			Responses: []string{
				"Hand wash your Medly bottle with warm soapy water. Do not put it in the dishwasher or freezer to maintain the vacuum seal.",
			},
		},
	}

	return &Table{Products: products, Entries: entries}
}
