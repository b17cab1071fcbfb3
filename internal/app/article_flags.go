package app

import (
	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/spf13/cobra"
)

// articleFlags holds the article fields shared by add and edit.
type articleFlags struct {
	title            string
	abstract         string
	conclusion       string
	year             int
	date             string
	journal          string
	doi              string
	language         string
	pageCount        int
	researchQuestion string
	methodology      string
	dataUsed         string
	results          string
	limitations      string
	firstImpression  string
	notes            string
	comment          string
	rating           int
	read             bool
	favorite         bool

	authors      []string
	keywords     []string
	subjects     []string
	tags         []string
	universities []string
	companies    []string
}

func (f *articleFlags) register(cmd *cobra.Command, language string) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Article title")
	fl.StringVar(&f.abstract, "abstract", "", "Abstract")
	fl.StringVar(&f.conclusion, "conclusion", "", "Conclusion")
	fl.IntVar(&f.year, "year", 0, "Publication year")
	fl.StringVar(&f.date, "date", "", "Publication date (YYYY-MM-DD)")
	fl.StringVar(&f.journal, "journal", "", "Journal or venue")
	fl.StringVar(&f.doi, "doi", "", "DOI")
	fl.StringVar(&f.language, "language", language, "Language code")
	fl.IntVar(&f.pageCount, "page-count", 0, "Number of pages")
	fl.StringVar(&f.researchQuestion, "research-question", "", "Research question")
	fl.StringVar(&f.methodology, "methodology", "", "Methodology")
	fl.StringVar(&f.dataUsed, "data-used", "", "Data used")
	fl.StringVar(&f.results, "results", "", "Results")
	fl.StringVar(&f.limitations, "limitations", "", "Limitations")
	fl.StringVar(&f.firstImpression, "first-impression", "", "First impression")
	fl.StringVar(&f.notes, "notes", "", "Free-form notes")
	fl.StringVar(&f.comment, "comment", "", "Comment")
	fl.IntVar(&f.rating, "rating", 0, "Rating from 0 to 5")
	fl.BoolVar(&f.read, "read", false, "Mark as read")
	fl.BoolVar(&f.favorite, "favorite", false, "Mark as favorite")

	fl.StringSliceVar(&f.authors, "author", nil, "Author (repeatable or comma-separated)")
	fl.StringSliceVar(&f.keywords, "keyword", nil, "Keyword (repeatable or comma-separated)")
	fl.StringSliceVar(&f.subjects, "subject", nil, "Subject (repeatable or comma-separated)")
	fl.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable or comma-separated)")
	fl.StringSliceVar(&f.universities, "university", nil, "University (repeatable)")
	fl.StringSliceVar(&f.companies, "company", nil, "Company (repeatable)")
}

func (f *articleFlags) newArticle() library.NewArticle {
	return library.NewArticle{
		Title:            f.title,
		Abstract:         f.abstract,
		Conclusion:       f.conclusion,
		Year:             f.year,
		Date:             f.date,
		Journal:          f.journal,
		DOI:              f.doi,
		Language:         f.language,
		PageCount:        f.pageCount,
		ResearchQuestion: f.researchQuestion,
		Methodology:      f.methodology,
		DataUsed:         f.dataUsed,
		Results:          f.results,
		Limitations:      f.limitations,
		FirstImpression:  f.firstImpression,
		Notes:            f.notes,
		Comment:          f.comment,
		Rating:           f.rating,
		Read:             f.read,
		Favorite:         f.favorite,
		Authors:          f.authors,
		Keywords:         f.keywords,
		Subjects:         f.subjects,
		Tags:             f.tags,
		Universities:     f.universities,
		Companies:        f.companies,
	}
}

// update builds a partial update from the flags the user actually passed.
func (f *articleFlags) update(cmd *cobra.Command) library.ArticleUpdate {
	changed := cmd.Flags().Changed
	var u library.ArticleUpdate

	str := func(name string, dst *library.Optional[string], v string) {
		if changed(name) {
			*dst = library.Some(v)
		}
	}
	num := func(name string, dst *library.Optional[int], v int) {
		if changed(name) {
			*dst = library.Some(v)
		}
	}
	flag := func(name string, dst *library.Optional[bool], v bool) {
		if changed(name) {
			*dst = library.Some(v)
		}
	}
	list := func(name string, dst *library.Optional[[]string], v []string) {
		if changed(name) {
			*dst = library.Some(v)
		}
	}

	str("title", &u.Title, f.title)
	str("abstract", &u.Abstract, f.abstract)
	str("conclusion", &u.Conclusion, f.conclusion)
	num("year", &u.Year, f.year)
	str("date", &u.Date, f.date)
	str("journal", &u.Journal, f.journal)
	str("doi", &u.DOI, f.doi)
	str("language", &u.Language, f.language)
	num("page-count", &u.PageCount, f.pageCount)
	str("research-question", &u.ResearchQuestion, f.researchQuestion)
	str("methodology", &u.Methodology, f.methodology)
	str("data-used", &u.DataUsed, f.dataUsed)
	str("results", &u.Results, f.results)
	str("limitations", &u.Limitations, f.limitations)
	str("first-impression", &u.FirstImpression, f.firstImpression)
	str("notes", &u.Notes, f.notes)
	str("comment", &u.Comment, f.comment)
	num("rating", &u.Rating, f.rating)
	flag("read", &u.Read, f.read)
	flag("favorite", &u.Favorite, f.favorite)
	list("author", &u.Authors, f.authors)
	list("keyword", &u.Keywords, f.keywords)
	list("subject", &u.Subjects, f.subjects)
	list("tag", &u.Tags, f.tags)
	list("university", &u.Universities, f.universities)
	list("company", &u.Companies, f.companies)
	return u
}
