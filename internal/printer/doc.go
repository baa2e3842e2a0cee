// Package printer renders label images and sends them to the CUPS printer.
//
// Labels produces PNG files for the unit barcode (EAN-13), the passport QR
// code, and the seal tag, each padded onto a white canvas that matches the
// label paper aspect ratio. Client submits an image to CUPS through the lp
// command with the annotation as the job title.
package printer
