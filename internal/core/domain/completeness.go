package domain

// CompletenessReport summarizes how much of the required-document checklist a
// batch of classification results covers.
type CompletenessReport struct {
	ClassifiedTypes        []DocumentType `json:"classified_types"`
	MissingRequired        []DocumentType `json:"missing_required_documents"`
	CompletenessPercentage float64        `json:"completeness_percentage"`
}

// Completeness computes the report against a fixed required list. Membership
// is by set: duplicates of one required type count once and never substitute
// for another. The percentage is exact; rounding is the consumer's concern.
// The required list being non-empty is a configuration invariant.
func Completeness(results []ClassificationResult, required []DocumentType) CompletenessReport {
	observed := make(map[DocumentType]struct{}, len(results))
	distinct := []DocumentType{}
	for _, r := range results {
		if _, ok := observed[r.DocumentType]; ok {
			continue
		}
		observed[r.DocumentType] = struct{}{}
		distinct = append(distinct, r.DocumentType)
	}

	missing := []DocumentType{}
	for _, req := range required {
		if _, ok := observed[req]; !ok {
			missing = append(missing, req)
		}
	}

	percentage := float64(len(required)-len(missing)) / float64(len(required)) * 100

	return CompletenessReport{
		ClassifiedTypes:        distinct,
		MissingRequired:        missing,
		CompletenessPercentage: percentage,
	}
}
