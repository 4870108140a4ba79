package pgviews

import "errors"

type ScanValueFunc[T any] func(Scanner) (T, error)

type SliceScannerFunc[T any] func(rows Rows, queryErr error) ([]T, error)

// scanRows invokes f on each row until it returns false or an error. The rows are
// always closed; close and iteration errors are joined onto the returned error.
func scanRows(rows Rows, queryErr error, f func(Scanner) (bool, error)) (err error) {
	if queryErr != nil {
		return queryErr
	}
	defer func() { err = errors.Join(err, rows.Close(), rows.Err()) }()

	for rows.Next() {
		if ok, err := f(rows); err != nil {
			return err
		} else if !ok {
			break
		}
	}

	return nil
}

func NewSliceScanner[T any](f ScanValueFunc[T]) SliceScannerFunc[T] {
	return func(rows Rows, queryErr error) ([]T, error) {
		values := make([]T, 0)
		err := scanRows(rows, queryErr, func(s Scanner) (bool, error) {
			value, err := f(s)
			if err != nil {
				return false, err
			}

			values = append(values, value)
			return true, nil
		})

		return values, err
	}
}

func NewAnyValueScanner[T any]() ScanValueFunc[T] {
	return func(s Scanner) (value T, err error) {
		err = s.Scan(&value)
		return
	}
}

var ScanStrings = NewSliceScanner(NewAnyValueScanner[string]())
