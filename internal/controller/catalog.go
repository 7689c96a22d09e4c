package controller

func (i *implementation) listBooks(r request) (response, error) {
	books, err := i.books.ListBooks(r.Context())
	if err != nil {
		return response{}, err
	}
	return ok(books)
}

func (i *implementation) getBook(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	book, err := i.books.GetBook(r.Context(), id)
	if err != nil {
		return response{}, err
	}
	return ok(book)
}

func (i *implementation) addBook(r request) (response, error) {
	req, err := decodeValid[bookRequest](r)
	if err != nil {
		return response{}, err
	}

	book, err := i.books.AddBook(r.Context(), r.user, req.book(""))
	if err != nil {
		return response{}, err
	}
	return created(book)
}

func (i *implementation) updateBook(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	req, err := decodeValid[bookRequest](r)
	if err != nil {
		return response{}, err
	}

	book, err := i.books.UpdateBook(r.Context(), r.user, req.book(id))
	if err != nil {
		return response{}, err
	}
	return ok(book)
}

// deleteBook goes through circulation, which removes the copies first.
func (i *implementation) deleteBook(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	if err = i.circulation.DeleteBook(r.Context(), r.user, id); err != nil {
		return response{}, err
	}
	return noContent()
}

func (i *implementation) listSubjects(r request) (response, error) {
	subjects, err := i.books.ListSubjects(r.Context())
	if err != nil {
		return response{}, err
	}
	return ok(subjects)
}

func (i *implementation) listAuthors(r request) (response, error) {
	authors, err := i.authors.ListAuthors(r.Context())
	if err != nil {
		return response{}, err
	}
	return ok(authors)
}

func (i *implementation) addAuthor(r request) (response, error) {
	req, err := decodeValid[authorRequest](r)
	if err != nil {
		return response{}, err
	}

	author, err := i.authors.AddAuthor(r.Context(), req.Name, req.Bio)
	if err != nil {
		return response{}, err
	}
	return created(author)
}

func (i *implementation) deleteAuthor(r request) (response, error) {
	id, err := pathID(r, "author_id")
	if err != nil {
		return response{}, err
	}

	if err = i.authors.DeleteAuthor(r.Context(), r.user, id); err != nil {
		return response{}, err
	}
	return noContent()
}
