package service

// Marketing content for the public site. Features, steps and FAQs are
// localized by key; testimonials are real patient quotes and stay verbatim.

// Feature is one selling point on the landing page.
type Feature struct {
	Key      string `json:"key"`
	TitleKey string `json:"-"`
	DescKey  string `json:"-"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
}

// Step is one stage of the patient journey section.
type Step struct {
	Number   int    `json:"number"`
	TitleKey string `json:"-"`
	DescKey  string `json:"-"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
}

// FAQ is one question on the landing page.
type FAQ struct {
	QuestionKey string `json:"-"`
	AnswerKey   string `json:"-"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
}

// NavItem is one entry of the landing page navigation.
type NavItem struct {
	LabelKey string `json:"-"`
	Label    string `json:"label"`
	Href     string `json:"href"`
}

// Testimonial is a patient quote shown in the reviews carousel.
type Testimonial struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Text     string `json:"text"`
	Image    string `json:"image"`
	Rating   int    `json:"rating"`
}

type ContentService struct{}

func (s *ContentService) NavItems() []NavItem {
	return []NavItem{
		{LabelKey: "content.nav.howItWorks", Href: "#how-it-works"},
		{LabelKey: "content.nav.benefits", Href: "#benefits"},
		{LabelKey: "content.nav.pricing", Href: "#pricing"},
		{LabelKey: "content.nav.faq", Href: "#faq"},
	}
}

func (s *ContentService) Features() []Feature {
	return []Feature{
		{Key: "invisible", TitleKey: "content.features.invisible.title", DescKey: "content.features.invisible.desc"},
		{Key: "removable", TitleKey: "content.features.removable.title", DescKey: "content.features.removable.desc"},
		{Key: "precision", TitleKey: "content.features.precision.title", DescKey: "content.features.precision.desc"},
		{Key: "results", TitleKey: "content.features.results.title", DescKey: "content.features.results.desc"},
	}
}

func (s *ContentService) Steps() []Step {
	return []Step{
		{Number: 1, TitleKey: "content.steps.scan.title", DescKey: "content.steps.scan.desc"},
		{Number: 2, TitleKey: "content.steps.plan.title", DescKey: "content.steps.plan.desc"},
		{Number: 3, TitleKey: "content.steps.start.title", DescKey: "content.steps.start.desc"},
	}
}

func (s *ContentService) FAQs() []FAQ {
	return []FAQ{
		{QuestionKey: "content.faq.duration.q", AnswerKey: "content.faq.duration.a"},
		{QuestionKey: "content.faq.pain.q", AnswerKey: "content.faq.pain.a"},
		{QuestionKey: "content.faq.wear.q", AnswerKey: "content.faq.wear.a"},
		{QuestionKey: "content.faq.age.q", AnswerKey: "content.faq.age.a"},
	}
}

func (s *ContentService) Testimonials() []Testimonial {
	return []Testimonial{
		{
			Name:     "Arta Krasniqi",
			Location: "Peja",
			Text:     "Linea Aligners changed my life! I always wanted to fix my teeth but hated the idea of braces. These were completely invisible.",
			Image:    "https://images.unsplash.com/photo-1567532939604-b6b5b0ad2604?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
		{
			Name:     "Besnik Gashi",
			Location: "Prizren",
			Text:     "The 3D scan at Meident was so fast and professional. I could see my future smile before even starting. Highly recommend the team!",
			Image:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
		{
			Name:     "Dafina Zeqiri",
			Location: "Ferizaj",
			Text:     "Super comfortable and easy to manage. I love that I can take them out for important meetings or when I eat.",
			Image:    "https://images.unsplash.com/photo-1531123897727-8f129e16fd3c?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
		{
			Name:     "Luan Rama",
			Location: "Peja",
			Text:     "Great experience from start to finish. The support team was always there when I had questions about my treatment plan.",
			Image:    "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
		{
			Name:     "Era Hoxha",
			Location: "Gjakova",
			Text:     "The 3D scanning process was mind-blowing. No messy molds, just high-tech precision. My results are exactly what I expected!",
			Image:    "https://images.unsplash.com/photo-1488426862026-3ee34a7d66df?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
		{
			Name:     "Alban Berisha",
			Location: "Mitrovica",
			Text:     "I work in a professional environment and was worried about my appearance. Nobody even noticed I was wearing them. Incredible!",
			Image:    "https://images.unsplash.com/photo-1492562080023-ab3db95bfbce?auto=format&fit=crop&q=80&w=200&h=200",
			Rating:   5,
		},
	}
}
