// Package inbound maps interchange records to the intermediate invoice.
package inbound

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rezonia/einvoice-converter/internal/flatxml"
	"github.com/rezonia/einvoice-converter/internal/model"
	"github.com/rezonia/einvoice-converter/internal/record"
	"github.com/rezonia/einvoice-converter/internal/schema"
)

// Map builds an intermediate invoice from a record in the interchange
// vocabulary. Delivery and invoice addresses that carry no value at all
// are copied from the customer address. Outside personnel mode, contact
// data of the processor is read from processor.address when it exists.
func Map(rec *record.Node, keys model.ConversionKeys) *model.Invoice {
	inv := model.NewInvoice()

	if fragment := keys.ZBDetails(); fragment != "" {
		details, err := flatxml.ParseZBDetails(fragment)
		if err != nil {
			log.Warn().Err(err).Msg("skipping payment term details")
		} else {
			details.Each(inv.PaymentTerms.AdditionalData.Set)
		}
	}

	schema.Decode(rec, inv)

	if !keys.PersonalData() {
		if addr := rec.Lookup(schema.Processor, schema.ProcessorAddress); addr != nil {
			var contact model.Person
			schema.DecodeFields(addr, &contact, schema.PersonFields)
			inv.Processor.Email = contact.Email
			inv.Processor.Phone = contact.Phone
			inv.Processor.Fax = contact.Fax
			inv.Processor.Department = contact.Department
			if inv.Processor.Name == nil {
				inv.Processor.Name = contact.Name
			}
		}
	}

	inv.DeliveryAddress = model.ResolveAddress(inv.DeliveryAddress, inv.CustomerAddress)
	inv.InvoiceAddress = model.ResolveAddress(inv.InvoiceAddress, inv.CustomerAddress)
	return inv
}

// FromERP extracts and maps an ERP flat XML export
func FromERP(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	rec, err := flatxml.NewExtractor().ExtractBytes(ctx, raw, keys)
	if err != nil {
		return nil, err
	}
	return Map(rec, keys), nil
}

// FromJSON maps an interchange JSON document
func FromJSON(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := record.ParseJSON(raw, schema.Root)
	if err != nil {
		return nil, err
	}
	return Map(rec, keys), nil
}

// FromXML maps an interchange XML document, e.g. one written by the XML
// exporter
func FromXML(ctx context.Context, raw []byte, keys model.ConversionKeys) (*model.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := record.ParseXML(raw)
	if err != nil {
		return nil, err
	}
	return Map(rec, keys), nil
}
