package domain

var Tables = []interface{}{
	&ProductRecord{},
}
