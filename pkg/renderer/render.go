package renderer

import (
	"strings"

	"github.com/karbar/resumeforge/pkg/record"
)

// latexEscaper substitutes the reserved characters in one pass, so
// replacement output is never itself re-escaped.
//
//nolint:gochecknoglobals // Fixed substitution table
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\^{}`,
)

// EscapeLaTeX escapes user-supplied text for insertion into markup. It must
// run before keyword highlighting so highlight markers are never escaped.
func EscapeLaTeX(text string) (escaped string) {
	escaped = latexEscaper.Replace(text)
	return escaped
}

// Render fills the document template from the record. Pure and
// deterministic: identical inputs yield byte-identical markup.
func Render(r *record.Record, skills *record.ExtractedSkills) (markup string) {
	markup = resumeTemplate

	name := r.FullName
	if name == "" {
		name = "Your Name"
	}
	markup = strings.Replace(markup, "{FULL_NAME}", EscapeLaTeX(name), 1)
	markup = strings.ReplaceAll(markup, "{EMAIL}", EscapeLaTeX(r.Email))
	markup = strings.Replace(markup, "{PHONE}", EscapeLaTeX(r.Phone), 1)

	locationPipe := ""
	if r.Location != "" {
		locationPipe = ` $|$ ` + EscapeLaTeX(r.Location)
	}
	markup = strings.Replace(markup, "{LOCATION_PIPE}", locationPipe, 1)
	markup = strings.Replace(markup, "{LINKS}", headerLinks(r), 1)

	markup = strings.Replace(markup, "{EDUCATION_SECTION}", educationSection(r), 1)
	markup = strings.Replace(markup, "{EXPERIENCE_SECTION}", experienceSection(r, skills), 1)
	markup = strings.Replace(markup, "{PROJECTS_SECTION}", projectsSection(r, skills), 1)
	markup = strings.Replace(markup, "{SKILLS_SECTION}", skillsSection(r, skills), 1)
	markup = strings.Replace(markup, "{ACHIEVEMENTS_SECTION}", achievementsSection(r), 1)
	markup = strings.Replace(markup, "{LANGUAGES_SECTION}", languagesSection(r), 1)
	markup = strings.Replace(markup, "{INTERESTS_SECTION}", interestsSection(r), 1)

	return markup
}

// headerLinks builds the LinkedIn/GitHub/GitLab/Portfolio line. Schemes are
// stripped from user input so hrefs come out uniform.
func headerLinks(r *record.Record) (links string) {
	type link struct {
		url   string
		label string
	}

	var present []link
	for _, l := range []link{
		{url: r.LinkedIn, label: "LinkedIn"},
		{url: r.GitHub, label: "GitHub"},
		{url: r.GitLab, label: "GitLab"},
		{url: r.Portfolio, label: "Portfolio"},
	} {
		if l.url != "" {
			present = append(present, l)
		}
	}

	if len(present) == 0 {
		return links
	}

	parts := make([]string, 0, len(present))
	for _, l := range present {
		url := strings.TrimPrefix(strings.TrimPrefix(l.url, "https://"), "http://")
		parts = append(parts, `\href{https://`+EscapeLaTeX(url)+`}{\underline{`+l.label+`}}`)
	}

	links = ` \\ \small ` + strings.Join(parts, ` $|$ `)
	return links
}

// highlightKeywords wraps the first occurrence of each escaped keyword in an
// emphasis marker. Technical terms apply before generic keywords, and a
// keyword wraps at most once per field.
func highlightKeywords(escaped string, skills *record.ExtractedSkills) (highlighted string) {
	highlighted = escaped
	if skills.Empty() {
		return highlighted
	}

	all := make([]string, 0, len(skills.Technical)+len(skills.Keywords))
	all = append(all, skills.Technical...)
	all = append(all, skills.Keywords...)

	// The keyword list repeats technical terms, so track what has been
	// wrapped already; re-wrapping would nest the markers.
	applied := make(map[string]bool, len(all))
	for _, kw := range all {
		escapedKw := EscapeLaTeX(kw)
		if escapedKw == "" || applied[escapedKw] {
			continue
		}
		if strings.Contains(highlighted, escapedKw) {
			highlighted = strings.Replace(highlighted, escapedKw, `\textcolor{blue}{`+escapedKw+`}`, 1)
			applied[escapedKw] = true
		}
	}

	return highlighted
}

// bulletLines splits multi-line free text into cleaned lines, stripping any
// leading bullet punctuation the user typed themselves.
func bulletLines(text string) (lines []string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func educationSection(r *record.Record) (section string) {
	if len(r.Education) == 0 {
		return section
	}

	var b strings.Builder
	b.WriteString("\\section{Education}\n  \\resumeSubHeadingListStart\n")
	for _, entry := range r.Education {
		b.WriteString("    \\resumeSubheading\n")
		b.WriteString("      {" + EscapeLaTeX(entry.Institution) + "}{" + EscapeLaTeX(entry.Period) + "}\n")
		b.WriteString("      {" + EscapeLaTeX(entry.Program) + "}{}\n")
	}
	b.WriteString("  \\resumeSubHeadingListEnd\n")

	section = b.String()
	return section
}

func experienceSection(r *record.Record, skills *record.ExtractedSkills) (section string) {
	if len(r.Experience) == 0 {
		return section
	}

	var b strings.Builder
	b.WriteString("\\section{Experience}\n  \\resumeSubHeadingListStart\n")
	for _, entry := range r.Experience {
		b.WriteString("    \\resumeSubheading\n")
		b.WriteString("      {" + EscapeLaTeX(entry.Position) + "}{" + EscapeLaTeX(entry.Period) + "}\n")
		b.WriteString("      {" + EscapeLaTeX(entry.Company) + "}{}\n")
		b.WriteString("      \\resumeItemListStart\n")
		for _, line := range bulletLines(entry.Description) {
			item := highlightKeywords(EscapeLaTeX(line), skills)
			b.WriteString("        \\resumeItem{" + item + "}\n")
		}
		b.WriteString("      \\resumeItemListEnd\n")
	}
	b.WriteString("  \\resumeSubHeadingListEnd\n")

	section = b.String()
	return section
}

func projectsSection(r *record.Record, skills *record.ExtractedSkills) (section string) {
	if len(r.Projects) == 0 {
		return section
	}

	var b strings.Builder
	b.WriteString("\\section{Projects}\n  \\resumeSubHeadingListStart\n")
	for _, entry := range r.Projects {
		b.WriteString("    \\resumeProjectHeading\n")
		b.WriteString("      {\\textbf{" + EscapeLaTeX(entry.Name) + "}}{}\n")
		lines := bulletLines(entry.Description)
		if len(lines) > 0 {
			b.WriteString("      \\resumeItemListStart\n")
			for _, line := range lines {
				item := highlightKeywords(EscapeLaTeX(line), skills)
				b.WriteString("        \\resumeItem{" + item + "}\n")
			}
			b.WriteString("      \\resumeItemListEnd\n")
		}
	}
	b.WriteString("  \\resumeSubHeadingListEnd\n")

	section = b.String()
	return section
}

func skillsSection(r *record.Record, skills *record.ExtractedSkills) (section string) {
	if r.TechnicalSkills == "" {
		return section
	}

	var b strings.Builder
	b.WriteString("\\section{Skills}\n \\begin{itemize}[leftmargin=0.15in, label={}]\n    \\small{\\item{\n")

	tech := highlightKeywords(EscapeLaTeX(r.TechnicalSkills), skills)
	b.WriteString("     \\textbf{Technical}{: " + tech + "} \\\\\n")

	if r.SoftSkills != "" {
		b.WriteString("     \\textbf{Soft skills}{: " + EscapeLaTeX(r.SoftSkills) + "} \\\\\n")
	}

	b.WriteString("    }}\n \\end{itemize}\n")

	section = b.String()
	return section
}

func achievementsSection(r *record.Record) (section string) {
	if r.Achievements == "" {
		return section
	}

	var b strings.Builder
	b.WriteString("\\section{Achievements}\n \\begin{itemize}[leftmargin=0.15in, label={}]\n    \\small{\\item{\n")
	for _, line := range bulletLines(r.Achievements) {
		b.WriteString("     " + EscapeLaTeX(line) + " \\\\\n")
	}
	b.WriteString("    }}\n \\end{itemize}\n")

	section = b.String()
	return section
}

func languagesSection(r *record.Record) (section string) {
	if r.Languages == "" {
		return section
	}

	section = "\\section{Languages}\n \\begin{itemize}[leftmargin=0.15in, label={}]\n    \\small{\\item{\n     " +
		EscapeLaTeX(r.Languages) + "\n    }}\n \\end{itemize}\n"
	return section
}

func interestsSection(r *record.Record) (section string) {
	if r.Interests == "" {
		return section
	}

	section = "\\section{Interests}\n \\begin{itemize}[leftmargin=0.15in, label={}]\n    \\small{\\item{\n     " +
		EscapeLaTeX(r.Interests) + "\n    }}\n \\end{itemize}\n"
	return section
}
