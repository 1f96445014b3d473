package lexicon

// Default returns the compiled-in lexicon tables. An external YAML file
// loaded through LoadFile overrides any table it names; Default is what an
// analysis falls back to when no file is configured.
func Default() *Lexicon {
	lex := &Lexicon{
		Version: "builtin-2025.08",

		Skills: []string{
			"python", "java", "javascript", "typescript", "go", "golang", "rust",
			"c++", "c#", "ruby", "php", "scala", "kotlin", "swift", "sql",
			"html", "css", "bash", "r",
			"machine learning", "deep learning", "data analysis", "data science",
			"data engineering", "data modeling", "statistics",
			"rest apis", "graphql", "microservices", "distributed systems",
			"system design", "api design", "backend development",
			"frontend development", "full stack development", "web development",
			"mobile development", "cloud computing", "devops", "ci/cd",
			"test automation", "unit testing", "integration testing",
			"agile", "scrum", "kanban", "project management", "product management",
			"etl", "data pipelines", "stream processing",
			"security", "networking", "performance tuning", "observability",
		},
		Tools: []string{
			"aws", "azure", "gcp", "google cloud", "docker", "kubernetes",
			"terraform", "ansible", "jenkins", "github actions", "gitlab ci",
			"git", "linux", "postgresql", "mysql", "mongodb", "redis",
			"elasticsearch", "kafka", "rabbitmq", "spark", "hadoop", "airflow",
			"snowflake", "dbt", "tableau", "power bi", "grafana", "prometheus",
			"react", "angular", "vue", "node.js", "django", "flask", "spring",
			"spring boot", "rails", ".net", "express", "fastapi",
			"jira", "confluence", "figma", "salesforce", "excel",
		},
		SoftSkills: []string{
			"communication", "communication skills", "leadership", "teamwork",
			"collaboration", "problem solving", "critical thinking",
			"time management", "attention to detail", "adaptability",
			"mentoring", "stakeholder management", "presentation skills",
			"analytical skills", "decision making", "conflict resolution",
			"customer service", "negotiation", "creativity",
		},
		Synonyms: map[string]string{
			"js":                 "javascript",
			"ts":                 "typescript",
			"golang":             "go",
			"k8s":                "kubernetes",
			"postgres":           "postgresql",
			"amazon web services": "aws",
			"google cloud platform": "gcp",
			"google cloud":       "gcp",
			"ml":                 "machine learning",
			"ai":                 "machine learning",
			"ci cd":              "ci/cd",
			"continuous integration": "ci/cd",
			"nodejs":             "node.js",
			"node":               "node.js",
			"reactjs":            "react",
			"vuejs":              "vue",
			"communication skills": "communication",
			"team player":        "teamwork",
			"problem-solving":    "problem solving",
		},
		Stopwords: []string{
			"a", "an", "and", "the", "for", "with", "you", "your", "our",
			"are", "is", "be", "been", "was", "were", "have", "has", "had",
			"will", "would", "can", "could", "should", "may", "must",
			"this", "that", "these", "those", "from", "into", "over",
			"their", "they", "them", "we", "us", "it", "its", "of", "in",
			"on", "at", "to", "as", "by", "or", "not", "but", "all", "also",
			"more", "than", "such", "other", "about", "across", "within",
			"work", "working", "team", "role", "job", "ability", "strong",
			"experience", "years", "plus", "including", "etc", "new",
			"excellent", "good", "solid", "proven", "demonstrated",
			"knowledge", "understanding", "familiarity", "proficiency",
		},
		BoilerplateHeaders: []string{
			"responsibilities", "requirements", "qualifications",
			"what you'll do", "what you will do", "what we offer",
			"about the role", "about us", "about you", "benefits",
			"who you are", "nice to have", "bonus points", "preferred qualifications",
			"minimum qualifications", "basic qualifications", "your profile",
		},
		SectionLabels: []string{
			"requirements", "qualifications", "minimum qualifications",
			"basic qualifications", "preferred qualifications",
			"required skills", "required qualifications", "who you are",
			"what we're looking for", "what we are looking for",
		},
		RequiredCues: []string{
			"required", "must have", "must-have", "need", "needs", "essential",
			"minimum", "mandatory",
		},
		PreferredCues: []string{
			"preferred", "nice to have", "nice-to-have", "bonus", "a plus",
			"desirable", "ideally", "optional",
		},
		CertificationPatterns: []string{
			`(?i)\baws certified[a-z0-9 -]*`,
			`(?i)\bazure (?:certified|fundamentals|administrator)[a-z0-9 -]*`,
			`(?i)\bgoogle (?:cloud )?certified[a-z0-9 -]*`,
			`(?i)\bcertified [a-z]+(?: [a-z]+){0,3}`,
			`(?i)\bpmp\b`,
			`(?i)\bcissp\b`,
			`(?i)\bcpa\b`,
			`(?i)\bcfa\b`,
			`(?i)\bckad\b`,
			`(?i)\bcka\b`,
			`(?i)\bscrum master certification\b`,
			`(?i)\bsecurity\+\b`,
			`(?i)\bccna\b`,
			`(?i)\bitil\b`,
		},
		ExperiencePatterns: []string{
			`(?i)\b\d+\s*\+?\s*(?:years?|yrs?)(?:\s+of)?(?:\s+(?:relevant|professional|industry|hands-on))?(?:\s+experience)?`,
			`(?i)\b(?:senior|junior|mid)-?\s?level\b`,
			`(?i)\bentry[- ]level\b`,
		},
	}

	// Built-in tables are known-good; compile cannot fail on them.
	if err := lex.compile(); err != nil {
		panic(err)
	}
	return lex
}
