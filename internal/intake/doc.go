// Package intake runs batches: the files introduced by one drop or file
// selection.
//
// A batch clears the match panel, marks the surface as processing, previews
// every file in parallel and, if every preview succeeded, recognizes every
// image in parallel, appending keyword matches to the match panel as each
// recognition completes. The batch succeeds only if every preview and every
// recognition succeeded and the recognition queue is empty afterwards.
//
// Either way the processing class is removed and the keyword input is
// re-enabled exactly once. A failed batch also shows the error class for a
// fixed window.
//
// Gallery entries and matches appear in completion order, not submission
// order. Per-file outcomes are reported in submission order in BatchResult.
// Batches are not serialized; a batch started while another is running
// proceeds independently.
package intake
