package library

import (
	"time"

	"github.com/blackwell-systems/papershelf/internal/store"
)

// Entity is a classification vocabulary entry.
type Entity struct {
	ID   uint   `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Article is the article aggregate: the row plus its six collections.
type Article struct {
	ID               string    `json:"id" yaml:"id"`
	Title            string    `json:"title" yaml:"title"`
	Abstract         string    `json:"abstract" yaml:"abstract"`
	Conclusion       string    `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Year             int       `json:"year" yaml:"year"`
	Date             string    `json:"date" yaml:"date"`
	Journal          string    `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI              string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	Language         string    `json:"language" yaml:"language"`
	PageCount        int       `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	ResearchQuestion string    `json:"research_question,omitempty" yaml:"research_question,omitempty"`
	Methodology      string    `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	DataUsed         string    `json:"data_used,omitempty" yaml:"data_used,omitempty"`
	Results          string    `json:"results,omitempty" yaml:"results,omitempty"`
	Limitations      string    `json:"limitations,omitempty" yaml:"limitations,omitempty"`
	FirstImpression  string    `json:"first_impression,omitempty" yaml:"first_impression,omitempty"`
	Notes            string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Comment          string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Rating           int       `json:"rating" yaml:"rating"`
	Read             bool      `json:"read" yaml:"read"`
	Favorite         bool      `json:"favorite" yaml:"favorite"`
	FileBaseName     string    `json:"file_base_name" yaml:"file_base_name"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`

	Authors      []Entity `json:"authors" yaml:"authors"`
	Keywords     []Entity `json:"keywords" yaml:"keywords"`
	Subjects     []Entity `json:"subjects" yaml:"subjects"`
	Tags         []Entity `json:"tags" yaml:"tags"`
	Universities []Entity `json:"universities" yaml:"universities"`
	Companies    []Entity `json:"companies" yaml:"companies"`
}

// Collection returns the linked entities of kind k.
func (a *Article) Collection(k Kind) []Entity {
	if p := a.collection(k); p != nil {
		return *p
	}
	return nil
}

// Names returns the names of the linked entities of kind k.
func (a *Article) Names(k Kind) []string {
	coll := a.Collection(k)
	names := make([]string, len(coll))
	for i, e := range coll {
		names[i] = e.Name
	}
	return names
}

func (a *Article) collection(k Kind) *[]Entity {
	switch k {
	case KindAuthor:
		return &a.Authors
	case KindKeyword:
		return &a.Keywords
	case KindSubject:
		return &a.Subjects
	case KindTag:
		return &a.Tags
	case KindUniversity:
		return &a.Universities
	case KindCompany:
		return &a.Companies
	}
	return nil
}

// NewArticle is the create payload. Collections hold entity names.
type NewArticle struct {
	Title            string
	Abstract         string
	Conclusion       string
	Year             int
	Date             string
	Journal          string
	DOI              string
	Language         string
	PageCount        int
	ResearchQuestion string
	Methodology      string
	DataUsed         string
	Results          string
	Limitations      string
	FirstImpression  string
	Notes            string
	Comment          string
	Rating           int
	Read             bool
	Favorite         bool

	Authors      []string
	Keywords     []string
	Subjects     []string
	Tags         []string
	Universities []string
	Companies    []string
}

func (n *NewArticle) names(k Kind) []string {
	switch k {
	case KindAuthor:
		return n.Authors
	case KindKeyword:
		return n.Keywords
	case KindSubject:
		return n.Subjects
	case KindTag:
		return n.Tags
	case KindUniversity:
		return n.Universities
	case KindCompany:
		return n.Companies
	}
	return nil
}

// ArticleUpdate is a partial update. Unset fields keep their stored value;
// a set collection replaces the whole collection.
type ArticleUpdate struct {
	Title            Optional[string]
	Abstract         Optional[string]
	Conclusion       Optional[string]
	Year             Optional[int]
	Date             Optional[string]
	Journal          Optional[string]
	DOI              Optional[string]
	Language         Optional[string]
	PageCount        Optional[int]
	ResearchQuestion Optional[string]
	Methodology      Optional[string]
	DataUsed         Optional[string]
	Results          Optional[string]
	Limitations      Optional[string]
	FirstImpression  Optional[string]
	Notes            Optional[string]
	Comment          Optional[string]
	Rating           Optional[int]
	Read             Optional[bool]
	Favorite         Optional[bool]

	Authors      Optional[[]string]
	Keywords     Optional[[]string]
	Subjects     Optional[[]string]
	Tags         Optional[[]string]
	Universities Optional[[]string]
	Companies    Optional[[]string]
}

func (u *ArticleUpdate) names(k Kind) Optional[[]string] {
	switch k {
	case KindAuthor:
		return u.Authors
	case KindKeyword:
		return u.Keywords
	case KindSubject:
		return u.Subjects
	case KindTag:
		return u.Tags
	case KindUniversity:
		return u.Universities
	case KindCompany:
		return u.Companies
	}
	return Optional[[]string]{}
}

func (n *NewArticle) model(id, fileBaseName string, now time.Time) store.ArticleModel {
	return store.ArticleModel{
		ID:               id,
		Title:            n.Title,
		Abstract:         n.Abstract,
		Conclusion:       n.Conclusion,
		Year:             n.Year,
		Date:             n.Date,
		Journal:          n.Journal,
		DOI:              n.DOI,
		Language:         n.Language,
		PageCount:        n.PageCount,
		ResearchQuestion: n.ResearchQuestion,
		Methodology:      n.Methodology,
		DataUsed:         n.DataUsed,
		Results:          n.Results,
		Limitations:      n.Limitations,
		FirstImpression:  n.FirstImpression,
		Notes:            n.Notes,
		Comment:          n.Comment,
		Rating:           n.Rating,
		Read:             n.Read,
		Favorite:         n.Favorite,
		FileBaseName:     fileBaseName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func articleFromModel(m store.ArticleModel) Article {
	return Article{
		ID:               m.ID,
		Title:            m.Title,
		Abstract:         m.Abstract,
		Conclusion:       m.Conclusion,
		Year:             m.Year,
		Date:             m.Date,
		Journal:          m.Journal,
		DOI:              m.DOI,
		Language:         m.Language,
		PageCount:        m.PageCount,
		ResearchQuestion: m.ResearchQuestion,
		Methodology:      m.Methodology,
		DataUsed:         m.DataUsed,
		Results:          m.Results,
		Limitations:      m.Limitations,
		FirstImpression:  m.FirstImpression,
		Notes:            m.Notes,
		Comment:          m.Comment,
		Rating:           m.Rating,
		Read:             m.Read,
		Favorite:         m.Favorite,
		FileBaseName:     m.FileBaseName,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Authors:          []Entity{},
		Keywords:         []Entity{},
		Subjects:         []Entity{},
		Tags:             []Entity{},
		Universities:     []Entity{},
		Companies:        []Entity{},
	}
}
