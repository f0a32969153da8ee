package config

// Marketplace product categories, from the buyer guide's published list.
// https://docs.aws.amazon.com/marketplace/latest/buyerguide/buyer-product-categories.html
var knownCategories = func() map[string]bool {
	names := []string{
		"Application Development",
		"Application Servers",
		"Application Stacks",
		"Backup & Recovery",
		"Big Data",
		"Blockchain",
		"Business Intelligence",
		"Collaboration & Productivity",
		"Content Management",
		"CRM",
		"Databases & Caching",
		"Data Catalogs",
		"Data Cleansing",
		"DevOps",
		"eCommerce",
		"eLearning",
		"Financial Services",
		"Healthcare",
		"High Performance Computing",
		"Infrastructure Software",
		"IoT",
		"Issues & Bugs",
		"Log Analysis",
		"Machine Learning",
		"Media",
		"Migration",
		"Monitoring",
		"Network Infrastructure",
		"Operating Systems",
		"Project Management",
		"Public Sector",
		"Security",
		"Source Control",
		"Storage",
		"Testing",
	}
	categories := make(map[string]bool, len(names))
	for _, name := range names {
		categories[name] = true
	}
	return categories
}()
