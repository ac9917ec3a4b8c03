package model

// DefaultAccounts returns the starter accounts used when no account list is
// available from the server or the cache. Each call returns a fresh slice.
func DefaultAccounts() []Account {
	return []Account{
		{ID: LocalID("cash"), Name: "Cash", Balance: NewMoney(15000), Icon: "cash", Color: "#10b981"},
		{ID: LocalID("main-card"), Name: "Main card", Balance: NewMoney(42500), Icon: "credit-card", Color: "#3b82f6"},
	}
}

// DefaultCategories returns the starter categories: four income and six
// expense. Each call returns a fresh slice.
func DefaultCategories() []Category {
	return []Category{
		{ID: RemoteID(1001), Name: "Salary", Type: CategoryTypeIncome, Icon: "wallet", Color: "#10b981"},
		{ID: RemoteID(1002), Name: "Freelance", Type: CategoryTypeIncome, Icon: "briefcase", Color: "#3b82f6"},
		{ID: RemoteID(1003), Name: "Gifts", Type: CategoryTypeIncome, Icon: "gift", Color: "#8b5cf6"},
		{ID: RemoteID(1004), Name: "Investments", Type: CategoryTypeIncome, Icon: "trending-up", Color: "#06b6d4"},
		{ID: RemoteID(2001), Name: "Groceries", Type: CategoryTypeExpense, Icon: "shopping-cart", Color: "#ef4444"},
		{ID: RemoteID(2002), Name: "Entertainment", Type: CategoryTypeExpense, Icon: "film", Color: "#f59e0b"},
		{ID: RemoteID(2003), Name: "Transport", Type: CategoryTypeExpense, Icon: "car", Color: "#6366f1"},
		{ID: RemoteID(2004), Name: "Utilities", Type: CategoryTypeExpense, Icon: "home", Color: "#ec4899"},
		{ID: RemoteID(2005), Name: "Health", Type: CategoryTypeExpense, Icon: "activity", Color: "#14b8a6"},
		{ID: RemoteID(2006), Name: "Cafes", Type: CategoryTypeExpense, Icon: "coffee", Color: "#f97316"},
	}
}
