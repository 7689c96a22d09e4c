package log

type Action = string

const (
	AddAuthor    Action = "AddAuthor"
	ListAuthors         = "ListAuthors"
	DeleteAuthor        = "DeleteAuthor"
	AddBook             = "AddBook"
	GetBook             = "GetBook"
	ListBooks           = "ListBooks"
	UpdateBook          = "UpdateBook"
	DeleteBook          = "DeleteBook"
	ListSubjects        = "ListSubjects"
	SearchBooks         = "SearchBooks"

	AddItem           = "AddItem"
	DeleteItem        = "DeleteItem"
	ListItems         = "ListItems"
	Reserve           = "Reserve"
	ImmediateIssue    = "ImmediateIssue"
	Issue             = "Issue"
	Return            = "Return"
	CancelReservation = "CancelReservation"
	ExpireReservation = "ExpireReservation"
	ListTransactions  = "ListTransactions"
	Reconcile         = "Reconcile"

	Recommend = "Recommend"
)
