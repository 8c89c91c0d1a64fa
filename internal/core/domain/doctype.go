package domain

// DocumentType is one value from the closed medical-document taxonomy.
// The wire values are the checklist system's element codes.
type DocumentType string

const (
	TypeGrupaKrwi            DocumentType = "DOC_BADANIE_RH"
	TypeMorfologia           DocumentType = "DOC_BADANIE_MORF"
	TypeAPTT                 DocumentType = "DOC_BADANIE_APTT"
	TypePTINR                DocumentType = "DOC_BADANIE_PTINR"
	TypeINRAntykoagulanty    DocumentType = "DOC_BADANIE_INR"
	TypeSzczepienieWZW       DocumentType = "DOC_BADANIE_WZWB"
	TypePoziomHBS            DocumentType = "DOC_BADANIE_HBS"
	TypeAntygenHBS           DocumentType = "DOC_BADANIE_ANTYHBS"
	TypeAntygenHCV           DocumentType = "DOC_BADANIE_ANTYHCV"
	TypeKartaInformacyjna    DocumentType = "DOC_BADANIE_KISZP"
	TypeOpisZabiegu          DocumentType = "DOC_BADANIE_OPZAB"
	TypeJonogram             DocumentType = "DOC_BADANIE_JONONAK"
	TypeGlukoza              DocumentType = "DOC_BADANIE_GLUK"
	TypeKreatyninaMocznik    DocumentType = "DOC_BADANIE_KREMOC"
	TypeTSH                  DocumentType = "DOC_BADANIE_TSH"
	TypeRTGKlatka            DocumentType = "DOC_BADANIE_RTGKP"
	TypeEKG                  DocumentType = "DOC_BADANIE_EKG"
	TypeZaswInternista       DocumentType = "DOC_BADANIE_INTERN"
	TypeZaswKardiolog        DocumentType = "DOC_BADANIE_LK"
	TypeZaswNeurolog         DocumentType = "DOC_BADANIE_LN"
	TypeZaswEndokrynolog     DocumentType = "DOC_BADANIE_ZASEND"
	TypeZaswOnkolog          DocumentType = "DOC_BADANIE_ZASONK"

	// TypeInne is the catch-all for documents matching no known category.
	TypeInne DocumentType = "inne"
)

// AllTypes lists every taxonomy value in enumeration order. The order is a
// contract: rule-based classification breaks confidence ties in favour of the
// earlier entry.
var AllTypes = []DocumentType{
	TypeGrupaKrwi,
	TypeMorfologia,
	TypeAPTT,
	TypePTINR,
	TypeINRAntykoagulanty,
	TypeSzczepienieWZW,
	TypePoziomHBS,
	TypeAntygenHBS,
	TypeAntygenHCV,
	TypeKartaInformacyjna,
	TypeOpisZabiegu,
	TypeJonogram,
	TypeGlukoza,
	TypeKreatyninaMocznik,
	TypeTSH,
	TypeRTGKlatka,
	TypeEKG,
	TypeZaswInternista,
	TypeZaswKardiolog,
	TypeZaswNeurolog,
	TypeZaswEndokrynolog,
	TypeZaswOnkolog,
	TypeInne,
}

// ParseDocumentType maps a wire value to a taxonomy member.
// Unknown values are reported so callers can decide their own fallback.
func ParseDocumentType(value string) (DocumentType, bool) {
	for _, t := range AllTypes {
		if string(t) == value {
			return t, true
		}
	}
	return TypeInne, false
}

// Description returns a human-readable (Polish) description for prompt
// building and diagnostics. The catch-all has no description.
func (t DocumentType) Description() string {
	return typeDescriptions[t]
}

var typeDescriptions = map[DocumentType]string{
	TypeGrupaKrwi:         "Oznaczenie grupy krwi i czynnika Rh",
	TypeMorfologia:        "Morfologia krwi (WBC, RBC, hemoglobina, hematokryt)",
	TypeAPTT:              "Badanie czasu częściowej tromboplastyny po aktywacji",
	TypePTINR:             "Czas protrombinowy i INR",
	TypeINRAntykoagulanty: "INR w kontekście leczenia antykoagulantami",
	TypeSzczepienieWZW:    "Zaświadczenie o szczepieniu przeciw wirusowemu zapaleniu wątroby typu B",
	TypePoziomHBS:         "Poziom przeciwciał anty-HBs",
	TypeAntygenHBS:        "Badanie antygenu HBsAg",
	TypeAntygenHCV:        "Badanie antygenu/przeciwciał HCV",
	TypeKartaInformacyjna: "Karta informacyjna leczenia szpitalnego",
	TypeOpisZabiegu:       "Opis wykonanego zabiegu operacyjnego",
	TypeJonogram:          "Badanie elektrolitów (sód, potas, chlorki)",
	TypeGlukoza:           "Badanie poziomu glukozy",
	TypeKreatyninaMocznik: "Badanie kreatyniny i mocznika",
	TypeTSH:               "Badanie hormonów tarczycy",
	TypeRTGKlatka:         "Zdjęcie rentgenowskie klatki piersiowej",
	TypeEKG:               "Elektrokardiogram - badanie czynności serca",
	TypeZaswInternista:    "Zaświadczenie od lekarza internisty lub pediatry (ogólne)",
	TypeZaswKardiolog:     "Zaświadczenie od kardiologa",
	TypeZaswNeurolog:      "Zaświadczenie od lekarza neurologa",
	TypeZaswEndokrynolog:  "Zaświadczenie od endokrynologa/diabetologa",
	TypeZaswOnkolog:       "Zaświadczenie od onkologa",
}

// TypeRule binds a document type to the keyword list the rule-based
// classifier scores against.
type TypeRule struct {
	Type     DocumentType
	Keywords []string
}

// ClassificationRules holds the keyword rules in enumeration order.
// A type absent here (or with an empty keyword list) can never win the
// rule-based path.
var ClassificationRules = []TypeRule{
	{TypeGrupaKrwi, []string{"grupa krwi", "rh", "blood group", "a+", "a-", "b+", "b-", "ab+", "ab-", "o+", "o-"}},
	{TypeMorfologia, []string{"morfologia", "wbc", "rbc", "hemoglobina", "leukocyty", "erytrocyty", "hgb", "hematokryt"}},
	{TypeAPTT, []string{"aptt", "czas częściowej tromboplastyny", "activated partial thromboplastin"}},
	{TypePTINR, []string{"pt", "inr", "czas protrombinowy", "prothrombin time"}},
	{TypeINRAntykoagulanty, []string{"inr", "antykoagulanty", "antykoagulant", "warfaryna", "acenokumarol"}},
	{TypeSzczepienieWZW, []string{"szczepienie", "wzw", "wirus zapalenia wątroby", "hepatitis b", "szczepionka"}},
	{TypePoziomHBS, []string{"przeciwciał", "hbs", "anti-hbs", "poziom przeciwciał"}},
	{TypeAntygenHBS, []string{"antygen", "hbs", "hbsag"}},
	{TypeAntygenHCV, []string{"antygen", "hcv", "anti-hcv", "wirus zapalenia wątroby typu c"}},
	{TypeKartaInformacyjna, []string{"karta informacyjna", "pobyt", "szpital", "oddział", "rozpoznanie"}},
	{TypeOpisZabiegu, []string{"zabieg", "operacja", "operacyjny", "chirurg", "procedura"}},
	{TypeJonogram, []string{"jonogram", "sód", "potas", "elektrolity", "na+", "k+", "chlorki"}},
	{TypeGlukoza, []string{"glukoza", "cukier", "na czczo", "glucose"}},
	{TypeKreatyninaMocznik, []string{"kreatynina", "mocznik", "creatinine", "urea"}},
	{TypeTSH, []string{"tsh", "ft3", "ft4", "tarczyca", "hormon", "tyrotropina"}},
	{TypeRTGKlatka, []string{"rtg", "rentgen", "klatka piersiowa", "chest x-ray", "radiogram"}},
	{TypeEKG, []string{"ekg", "elektrokardiogram", "ecg", "serce", "rytm"}},
	{TypeZaswInternista, []string{"zaświadczenie", "internista", "medycyna wewnętrzna", "pediatra"}},
	{TypeZaswKardiolog, []string{"zaświadczenie", "kardiolog", "kardiologia", "serce"}},
	{TypeZaswNeurolog, []string{"zaświadczenie", "neurolog", "neurologia", "neurologiczny"}},
	{TypeZaswEndokrynolog, []string{"zaświadczenie", "endokrynolog", "diabetolog", "cukrzyca", "endokrynologia"}},
	{TypeZaswOnkolog, []string{"zaświadczenie", "onkolog", "onkologia", "nowotwór"}},
}

// KeywordsFor returns the keyword list for a type, or nil when the type has
// no rule (the catch-all included).
func KeywordsFor(t DocumentType) []string {
	for _, rule := range ClassificationRules {
		if rule.Type == t {
			return rule.Keywords
		}
	}
	return nil
}

// RequiredDocuments is the fixed checklist a complete submission must cover.
var RequiredDocuments = []DocumentType{
	TypeGrupaKrwi,
	TypeMorfologia,
	TypeAPTT,
	TypePTINR,
	TypeEKG,
	TypeRTGKlatka,
}
