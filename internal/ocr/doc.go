// Package ocr reads the text inside the text detections of a diagram.
//
// Recognition is behind the Recognizer interface so that the rest of the
// pipeline only depends on its output contract: a string and a confidence in
// [0,1] for one box of one image. Tesseract is the bundled implementation,
// built on gosseract.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A non-standard tessdata directory can be given through Tesseract.TessdataPrefix
// or the TESSDATA_PREFIX environment variable.
//
// # Errors
//
// ReadText wraps any recogniser failure in diagram.ErrRecognition and returns no
// partial result.
package ocr
