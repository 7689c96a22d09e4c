package controller

import (
	"fmt"

	"github.com/project/circulation/internal/entity"
)

func (i *implementation) reserve(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	reservation, err := i.circulation.Reserve(r.Context(), r.user, id)
	if err != nil {
		return response{}, err
	}
	return created(reservation)
}

func (i *implementation) immediateIssue(r request) (response, error) {
	req, err := decodeValid[issueRequest](r)
	if err != nil {
		return response{}, err
	}

	issue, err := i.circulation.ImmediateIssue(r.Context(), r.user, req.BookID, req.UserID)
	if err != nil {
		return response{}, err
	}
	return created(issue)
}

func (i *implementation) issue(r request) (response, error) {
	id, err := pathID(r, "book_trans_id")
	if err != nil {
		return response{}, err
	}

	issue, err := i.circulation.Issue(r.Context(), r.user, id)
	if err != nil {
		return response{}, err
	}
	return created(issue)
}

func (i *implementation) returnBook(r request) (response, error) {
	id, err := pathID(r, "book_trans_id")
	if err != nil {
		return response{}, err
	}

	result, err := i.circulation.ReturnBook(r.Context(), r.user, id)
	if err != nil {
		return response{}, err
	}
	return ok(result)
}

func (i *implementation) cancel(r request) (response, error) {
	id, err := pathID(r, "book_trans_id")
	if err != nil {
		return response{}, err
	}

	reservation, err := i.circulation.CancelReservation(r.Context(), r.user, id)
	if err != nil {
		return response{}, err
	}
	return ok(reservation)
}

func (i *implementation) listTransactions(r request) (response, error) {
	all, err := i.circulation.ListTransactions(r.Context())
	if err != nil {
		return response{}, err
	}
	return ok(all)
}

func (i *implementation) listBookTransactions(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	all, err := i.circulation.ListBookTransactions(r.Context(), r.user, id, r.URL.Query().Get("type"))
	if err != nil {
		return response{}, err
	}
	return ok(all)
}

func (i *implementation) search(r request) (response, error) {
	title := r.URL.Query().Get("title")
	if title == "" {
		return response{}, fmt.Errorf("title: cannot be blank: %w", entity.ErrValidation)
	}

	found, err := i.circulation.Search(r.Context(), title)
	if err != nil {
		return response{}, err
	}
	return ok(found)
}

func (i *implementation) addItem(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	req, err := decodeValid[itemRequest](r)
	if err != nil {
		return response{}, err
	}

	item, err := i.circulation.AddItem(r.Context(), r.user, id, req.AccessionNo)
	if err != nil {
		return response{}, err
	}
	return created(item)
}

func (i *implementation) listItems(r request) (response, error) {
	id, err := pathID(r, "book_id")
	if err != nil {
		return response{}, err
	}

	items, err := i.circulation.ListItems(r.Context(), id)
	if err != nil {
		return response{}, err
	}
	return ok(items)
}

func (i *implementation) deleteItem(r request) (response, error) {
	id, err := pathID(r, "item_id")
	if err != nil {
		return response{}, err
	}

	if err = i.circulation.DeleteItem(r.Context(), r.user, id); err != nil {
		return response{}, err
	}
	return noContent()
}
