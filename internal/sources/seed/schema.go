package seed

// File is the root of a seed catalog:
//
//	resources:
//	  - title: Prisma
//	    url: https://prisma.io
//	    category: Database
//	    tags: [orm, database]
//	    stars: 32400
//	    featured: true
//	    added: 2024-01-20
type File struct {
	Resources []Entry `yaml:"resources"`
}

// Entry is one curated resource.
type Entry struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	URL           string   `yaml:"url"`
	Category      string   `yaml:"category"`
	Tags          []string `yaml:"tags"`
	Author        string   `yaml:"author"`
	AuthorURL     string   `yaml:"authorUrl"`
	GitHubURL     string   `yaml:"githubUrl"`
	Documentation string   `yaml:"documentation"`
	License       string   `yaml:"license"`
	Stars         int      `yaml:"stars"`
	Featured      bool     `yaml:"featured"`
	Added         string   `yaml:"added"` // YYYY-MM-DD, optional
}
