package domain

// CategoryAll is the sentinel that disables the category filter.
const CategoryAll = "All"

// BrowseCategories is the sidebar order on the browse page, sentinel first.
var BrowseCategories = []string{
	CategoryAll,
	"UI Components",
	"Authentication",
	"Database",
	"E-commerce",
	"Analytics",
	"Styling",
	"Animation",
	"Backend",
	"Testing",
	"Deployment",
}

// SubmitCategories are the values offered by the submission form.
var SubmitCategories = []string{
	"UI Components",
	"Authentication",
	"Database",
	"E-commerce",
	"Analytics",
	"Styling",
	"Animation",
	"Backend",
	"Testing",
	"Deployment",
	"Tools",
	"Templates",
}

// PopularTags are suggested on the submission form.
var PopularTags = []string{
	"react", "typescript", "tailwind", "prisma", "supabase", "vercel",
	"auth", "ui", "components", "api", "database", "styling", "animation",
	"testing", "deployment", "e-commerce", "analytics", "tools",
}

func isAllCategory(c string) bool {
	return c == "" || c == CategoryAll
}
