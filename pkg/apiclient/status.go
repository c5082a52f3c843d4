package apiclient

import (
	"net/url"

	"github.com/mosvani/blocktally/pkg/api"
)

// Health checks whether the node is up.
func (c *Client) Health() error {
	return c.get("/health", nil)
}

// Node fetches the identity of the accounted node.
func (c *Client) Node() (api.NodeInfo, error) {
	var info api.NodeInfo
	err := c.get("/v1/node", &info)
	return info, err
}

// Usage fetches the node-wide aggregate usage.
func (c *Client) Usage() (api.UsageInfo, error) {
	var info api.UsageInfo
	err := c.get("/v1/usage", &info)
	return info, err
}

// Datasets fetches the per-dataset aggregates.
func (c *Client) Datasets() ([]api.DatasetInfo, error) {
	var list []api.DatasetInfo
	err := c.get("/v1/datasets", &list)
	return list, err
}

// Dataset fetches one dataset's aggregate and block list.
func (c *Client) Dataset(id string) (api.DatasetDetail, error) {
	var detail api.DatasetDetail
	err := c.get("/v1/datasets/"+url.PathEscape(id), &detail)
	return detail, err
}

// Block fetches one opaque block's footprint by name.
func (c *Client) Block(name string) (api.BlockInfo, error) {
	var info api.BlockInfo
	err := c.get("/v1/blocks/"+url.PathEscape(name), &info)
	return info, err
}
