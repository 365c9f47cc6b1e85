package model

// fields returns pointers to every field of the address, in declaration order.
func (a *Address) fields() []**string {
	return []**string{
		&a.GLNID, &a.CompanyName1, &a.CompanyName2, &a.CompanyName3,
		&a.CountryISO, &a.Name, &a.Department, &a.City,
		&a.PostalCode, &a.PostalCode2, &a.Street, &a.Fax,
		&a.Phone, &a.Email, &a.DUNSNumber, &a.VATID,
		&a.CommercialRegister, &a.ManagingDirector1, &a.ManagingDirector2, &a.TaxNumber,
		&a.BIC, &a.IBAN, &a.PaymentMethods,
	}
}

// IsEmpty reports whether no field of the address carries a value.
func (a Address) IsEmpty() bool {
	for _, f := range a.fields() {
		if *f != nil && **f != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; the copy shares no pointers with a.
func (a Address) Clone() Address {
	var out Address
	src := a.fields()
	dst := out.fields()
	for i := range src {
		if *src[i] != nil {
			v := **src[i]
			*dst[i] = &v
		}
	}
	return out
}

// ResolveAddress returns primary unless it is entirely empty, in which case
// a copy of fallback is returned. A single populated field in primary keeps it.
func ResolveAddress(primary, fallback Address) Address {
	if primary.IsEmpty() {
		return fallback.Clone()
	}
	return primary
}

// IsEmpty reports whether no contact field is set.
func (p Person) IsEmpty() bool {
	for _, f := range []*string{p.Name, p.Email, p.Phone, p.Fax, p.Department} {
		if f != nil && *f != "" {
			return false
		}
	}
	return true
}
