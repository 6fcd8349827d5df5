package catalog

import (
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// fallbackResources is served whenever the store cannot be read.
var fallbackResources = []domain.Resource{
	{
		ID:            "sample-1",
		Title:         "Next.js Commerce",
		Description:   "An all-in-one starter kit for high-performance e-commerce sites built with Next.js, Vercel, and Shopify.",
		URL:           "https://nextjs.org/commerce",
		Category:      "E-commerce",
		Tags:          []string{"e-commerce", "shopify", "vercel", "starter"},
		Author:        "Vercel",
		AuthorURL:     "https://vercel.com",
		GitHubURL:     "https://github.com/vercel/commerce",
		Documentation: "https://nextjs.org/commerce",
		License:       "MIT",
		Featured:      true,
		Stars:         4200,
		CreatedAt:     day("2024-01-15"),
	},
	{
		ID:            "sample-2",
		Title:         "NextAuth.js",
		Description:   "Complete open source authentication solution for Next.js applications with multiple providers.",
		URL:           "https://next-auth.js.org",
		Category:      "Authentication",
		Tags:          []string{"auth", "oauth", "jwt", "security"},
		Author:        "NextAuth.js Team",
		AuthorURL:     "https://next-auth.js.org",
		GitHubURL:     "https://github.com/nextauthjs/next-auth",
		Documentation: "https://next-auth.js.org/getting-started/introduction",
		License:       "ISC",
		Featured:      true,
		Stars:         15600,
		CreatedAt:     day("2024-01-05"),
	},
	{
		ID:            "sample-3",
		Title:         "Prisma",
		Description:   "Next-generation Node.js and TypeScript ORM for PostgreSQL, MySQL, MariaDB, SQL Server, SQLite, MongoDB and CockroachDB.",
		URL:           "https://prisma.io",
		Category:      "Database",
		Tags:          []string{"orm", "database", "typescript", "postgresql"},
		Author:        "Prisma",
		AuthorURL:     "https://prisma.io",
		GitHubURL:     "https://github.com/prisma/prisma",
		Documentation: "https://www.prisma.io/docs",
		License:       "Apache-2.0",
		Featured:      true,
		Stars:         32400,
		CreatedAt:     day("2024-01-20"),
	},
	{
		ID:            "sample-4",
		Title:         "Tailwind CSS",
		Description:   "A utility-first CSS framework for rapidly building custom user interfaces.",
		URL:           "https://tailwindcss.com",
		Category:      "Styling",
		Tags:          []string{"css", "utility", "responsive", "design"},
		Author:        "Tailwind Labs",
		AuthorURL:     "https://tailwindlabs.com",
		GitHubURL:     "https://github.com/tailwindlabs/tailwindcss",
		Documentation: "https://tailwindcss.com/docs",
		License:       "MIT",
		Featured:      true,
		Stars:         68200,
		CreatedAt:     day("2024-01-12"),
	},
	{
		ID:            "sample-5",
		Title:         "Framer Motion",
		Description:   "A production-ready motion library for React with declarative animations.",
		URL:           "https://framer.com/motion",
		Category:      "Animation",
		Tags:          []string{"animation", "motion", "react", "gestures"},
		Author:        "Framer",
		AuthorURL:     "https://framer.com",
		GitHubURL:     "https://github.com/framer/motion",
		Documentation: "https://www.framer.com/motion/",
		License:       "MIT",
		Featured:      true,
		Stars:         21800,
		CreatedAt:     day("2024-01-08"),
	},
	{
		ID:            "sample-6",
		Title:         "Shadcn/ui",
		Description:   "Beautifully designed components built with Radix UI and Tailwind CSS.",
		URL:           "https://ui.shadcn.com",
		Category:      "UI Components",
		Tags:          []string{"components", "radix", "tailwind", "accessible"},
		Author:        "shadcn",
		AuthorURL:     "https://ui.shadcn.com",
		GitHubURL:     "https://github.com/shadcn-ui/ui",
		Documentation: "https://ui.shadcn.com/docs",
		License:       "MIT",
		Stars:         45600,
		CreatedAt:     day("2024-01-18"),
	},
	{
		ID:            "sample-7",
		Title:         "React Hook Form",
		Description:   "Performant, flexible and extensible forms with easy validation.",
		URL:           "https://react-hook-form.com",
		Category:      "UI Components",
		Tags:          []string{"forms", "validation", "performance", "hooks"},
		Author:        "React Hook Form",
		AuthorURL:     "https://react-hook-form.com",
		GitHubURL:     "https://github.com/react-hook-form/react-hook-form",
		Documentation: "https://react-hook-form.com/get-started",
		License:       "MIT",
		Stars:         38900,
		CreatedAt:     day("2024-01-10"),
	},
	{
		ID:            "sample-8",
		Title:         "Zustand",
		Description:   "A small, fast and scalable bearbones state-management solution using simplified flux principles.",
		URL:           "https://zustand-demo.pmnd.rs",
		Category:      "Backend",
		Tags:          []string{"state", "management", "flux", "lightweight"},
		Author:        "Poimandres",
		AuthorURL:     "https://pmnd.rs",
		GitHubURL:     "https://github.com/pmndrs/zustand",
		Documentation: "https://zustand-demo.pmnd.rs",
		License:       "MIT",
		Stars:         41200,
		CreatedAt:     day("2024-01-22"),
	},
}

// Fallback returns a fresh copy of the built-in catalog so callers may
// modify it freely.
func Fallback() []domain.Resource {
	out := make([]domain.Resource, len(fallbackResources))
	for i, r := range fallbackResources {
		r.Tags = append([]string(nil), r.Tags...)
		r.Status = domain.StatusApproved
		r.UserID = "system"
		r.UpdatedAt = r.CreatedAt
		out[i] = r
	}
	return out
}
