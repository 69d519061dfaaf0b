package registry

var (
	both     = []Language{TypeScript, JavaScript}
	tsOnly   = []Language{TypeScript}
	frontend = []Framework{ReactJS, NextJS}
	anywhere = []Framework{ReactJS, NextJS, ExpressJS}

	builtin = []ToolDescriptor{
		{
			ID:          "tailwind",
			Alias:       "tailwindcss",
			Description: "A utility-first CSS framework for rapid UI development.",
			Label:       "Tailwind CSS",
			Hint:        "utility-first CSS",
			Homepage:    "https://tailwindcss.com/docs",
			Recommended: true,
			Languages:   both,
			Frameworks:  frontend,
		},
		{
			ID:          "eslint",
			Alias:       "lint",
			Description: "A pluggable linting utility for JavaScript and TypeScript.",
			Label:       "ESLint",
			Hint:        "pluggable linting",
			Homepage:    "https://eslint.org/docs/latest/",
			Languages:   both,
			Frameworks:  anywhere,
		},
		{
			ID:          "prettier",
			Description: "An opinionated code formatter for JavaScript and TypeScript.",
			Label:       "Prettier",
			Hint:        "opinionated code formatting",
			Homepage:    "https://prettier.io/docs/",
			Recommended: true,
			Languages:   both,
			Frameworks:  anywhere,
		},
		{
			ID:          "commitlint",
			Description: "A linter for commit messages.",
			Label:       "Commitlint",
			Hint:        "commitlint + husky",
			Homepage:    "https://commitlint.js.org/",
			Recommended: true,
			Languages:   both,
			Frameworks:  anywhere,
		},
		{
			ID:          "shadcn",
			Description: "A set of UI components for React.",
			Label:       "Shadcn",
			Hint:        "UI components for React",
			Homepage:    "https://ui.shadcn.com/docs",
			Languages:   tsOnly,
			Frameworks:  frontend,
			Requires:    []string{"tailwind"},
		},
		{
			ID:          "prisma",
			Description: "A next-generation ORM for Node.js and TypeScript.",
			Label:       "Prisma",
			Hint:        "next-generation ORM",
			Homepage:    "https://www.prisma.io/docs",
			Languages:   tsOnly,
			Frameworks:  []Framework{NextJS},
		},
		{
			ID:          "authjs",
			Alias:       "auth",
			Description: "A simple authentication library for JavaScript.",
			Label:       "Auth.js",
			Hint:        "authentication library (next-auth)",
			Homepage:    "https://authjs.dev/getting-started",
			Languages:   tsOnly,
			Frameworks:  []Framework{NextJS},
			Requires:    []string{"prisma"},
		},
		{
			ID:          "zod",
			Description: "A TypeScript-first schema declaration and validation library.",
			Label:       "Zod",
			Hint:        "TypeScript-first schema validation",
			Homepage:    "https://zod.dev",
			Languages:   tsOnly,
			Frameworks:  frontend,
		},
		{
			ID:          "zustand",
			Description: "A small, fast and scalable bearbones state-management solution.",
			Label:       "Zustand",
			Hint:        "lightweight state management",
			Homepage:    "https://zustand.docs.pmnd.rs/",
			Languages:   tsOnly,
			Frameworks:  frontend,
		},
	}

	// Default is the builtin tool table, checked when the process starts.
	Default = MustNew(builtin)
)
