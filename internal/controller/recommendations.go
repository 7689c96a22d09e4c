package controller

// recommend falls back to popular books when title is empty.
func (i *implementation) recommend(r request) (response, error) {
	books, err := i.recommendations.Recommend(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		return response{}, err
	}
	return ok(books)
}

func (i *implementation) recommendByVector(r request) (response, error) {
	req, err := decodeValid[vectorRequest](r)
	if err != nil {
		return response{}, err
	}

	books, err := i.recommendations.ByFeatureVector(r.Context(), req.Values)
	if err != nil {
		return response{}, err
	}
	return ok(books)
}
