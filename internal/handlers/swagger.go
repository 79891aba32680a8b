package handlers

// @title GST Invoice API
// @version 1.0
// @description Sales invoices, returns, purchases and stock for a food distributor with Indian GST (CGST/SGST or IGST) calculations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/your-org/gst-invoice-api

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name products
// @tag.description Product master and the built-in catalog

// @tag.name customers
// @tag.description Customer management operations

// @tag.name vendors
// @tag.description Vendor management operations

// @tag.name invoices
// @tag.description Sales invoices and sales returns

// @tag.name purchases
// @tag.description Purchase invoices received from vendors

// @tag.name stock
// @tag.description Stock position, ledger and adjustments

// @tag.name gst
// @tag.description Stateless GST calculations and checks

// @tag.name reports
// @tag.description Period GST reports
