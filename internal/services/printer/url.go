package printer

import "github.com/xelth-com/eckcheckin/internal/models"

// CheckInURL builds the visitor check-in link encoded in a warehouse QR code.
// Warehouse IDs are known-safe tokens and are not escaped.
func CheckInURL(baseURL string, id models.WarehouseID) string {
	return baseURL + "/?warehouse=" + string(id)
}

// SimpleFileName is the file name of the bare QR code for a warehouse
func SimpleFileName(id models.WarehouseID) string {
	return "QR_" + string(id) + ".png"
}

// LabeledFileName is the file name of the QR code with the printed label band
func LabeledFileName(id models.WarehouseID) string {
	return "QR_" + string(id) + "_with_label.png"
}
