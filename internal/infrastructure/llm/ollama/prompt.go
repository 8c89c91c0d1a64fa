package ollama

import (
	"fmt"
	"strings"

	"github.com/marioabc/document-classify/internal/core/domain"
)

// buildClassificationPrompt embeds the full taxonomy with descriptions, the
// ordered disambiguation rules (vaccination outranks generic certificates,
// specific lab parameters outrank generic categories), worked examples and
// the extracted text verbatim. The model answers in strict JSON.
func buildClassificationPrompt(text string) string {
	var typeList strings.Builder
	for _, t := range domain.AllTypes {
		if t == domain.TypeInne {
			continue
		}
		typeList.WriteString(fmt.Sprintf("- %s: %s\n", t, t.Description()))
	}

	return fmt.Sprintf(`Jesteś ekspertem w klasyfikacji polskich dokumentów medycznych.

Dostałeś tekst wyekstraktowany z dokumentu medycznego za pomocą OCR. Tekst może zawierać błędy OCR.

TYPY DOKUMENTÓW:
%s- inne: dokumenty, które nie pasują do żadnej z powyższych kategorii

TEKST DOKUMENTU:
%s

ZASADY KLASYFIKACJI (sprawdzaj w tej kolejności):
1. Szukaj kluczowych fraz i terminów specyficznych dla danego typu dokumentu
2. Zwracaj TYLKO typy z listy powyżej - NIGDY nie wymyślaj nowych typów
3. NAJPIERW sprawdź czy to szczepienie - TO MA PRIORYTET:
   - "szczepienie", "WZW", "wirusowe zapalenie wątroby", "hepatitis B", "typ B", "HBV" -> DOC_BADANIE_WZWB
   - Nawet jeśli jest tam słowo "zaświadczenie", jeśli chodzi o szczepienie WZW -> DOC_BADANIE_WZWB
4. Jeśli dokument to zaświadczenie (NIE o szczepieniu), sprawdź specjalizację lekarza:
   - "kardiolog", "kardiologia" -> DOC_BADANIE_LK
   - "neurolog", "neurologia" -> DOC_BADANIE_LN
   - "endokrynolog", "diabetolog" -> DOC_BADANIE_ZASEND
   - "onkolog", "onkologia" -> DOC_BADANIE_ZASONK
   - "internista", "pediatra", "ogólny" -> DOC_BADANIE_INTERN
5. Dla badań laboratoryjnych sprawdź konkretne parametry:
   - "APTT", "czas częściowej tromboplastyny" -> DOC_BADANIE_APTT
   - "PT", "INR", "czas protrombinowy" -> DOC_BADANIE_PTINR lub DOC_BADANIE_INR
   - "grupa krwi", "Rh" -> DOC_BADANIE_RH
   - "morfologia", "WBC", "RBC", "hemoglobina" -> DOC_BADANIE_MORF
6. Jeśli tekst jest pusty lub bardzo krótki (<20 znaków), zwróć "inne" z niską pewnością

PRZYKŁADY:
- "ZAŚWIADCZENIE O SZCZEPIENIU PRZECIW WZW TYPU B" -> DOC_BADANIE_WZWB (NIE DOC_BADANIE_INTERN!)
- "Zaświadczenie o szczepieniu WZW" -> DOC_BADANIE_WZWB
- "APTT 14.5" -> DOC_BADANIE_APTT (nie DOC_BADANIE_RH!)
- "Zaświadczenie, Poradnia kardiologu" -> DOC_BADANIE_LK
- "Zaświadczenie neurologiczne" -> DOC_BADANIE_LN
- "Grupa krwi 0 Rh+" -> DOC_BADANIE_RH

Przeanalizuj dokument i określ jego typ. Zwróć odpowiedź w formacie JSON:
{
  "document_type": "typ_dokumentu",
  "confidence": 0.95,
  "reasoning": "krótkie wyjaśnienie dlaczego wybrałeś ten typ"
}

Gdzie:
- document_type to DOKŁADNIE jedna z wartości z listy typów (np. "DOC_BADANIE_WZWB", "DOC_BADANIE_RH", "DOC_BADANIE_LK", itp.)
- confidence to wartość od 0.0 do 1.0 oznaczająca pewność klasyfikacji
- reasoning to krótkie (1-2 zdania) wyjaśnienie

WAŻNE: Zwróć TYLKO JSON, bez żadnego dodatkowego tekstu.`, typeList.String(), text)
}
